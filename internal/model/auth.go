package model

// AccessToken is the object carried by the bearer token of the dashboard.
// Guilds lists the guilds the user is allowed to manage.
type AccessToken struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Guilds []string `json:"guilds"`
}
