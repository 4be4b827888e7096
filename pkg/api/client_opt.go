package api

import "net/http"

// Opt changes a request right before it is sent.
type Opt interface {
	Apply(req *http.Request)
}

type authorization string

func (a authorization) Apply(req *http.Request) {
	req.Header.Set("Authorization", string(a))
}

// Bearer authorizes the request with a user access token.
func Bearer(token string) Opt {
	return authorization("Bearer " + token)
}

// Bot authorizes the request with a Discord bot token.
func Bot(token string) Opt {
	return authorization("Bot " + token)
}
