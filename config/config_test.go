package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_TomlThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
env = "staging"

[api_server]
port = "9000"

[reaction_role]
max_bindings = 5
`), 0600))

	t.Setenv("API_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TOKEN_EXPIRATION", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, "9100", cfg.ApiServer.Port)
	require.Equal(t, 5, cfg.ReactionRole.MaxBindings)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.ApiServer.CORSOrigins)
	require.Equal(t, time.Hour, cfg.Auth.AccessToken.Expiration)
	require.Equal(t, 24*time.Hour, cfg.ReactionRole.IdempotencyTTL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TOKEN_EXPIRATION", "soon")

	_, err := Load("")
	require.Error(t, err)
}

func TestDatabaseConfigs_ConnectionString(t *testing.T) {
	d := DatabaseConfigs{User: "u", Password: "p", Host: "h", Port: "3306", Database: "db"}
	require.Equal(t, "u:p@tcp(h:3306)/db?charset=utf8mb4&parseTime=True&loc=Local", d.ConnectionString())

	d.DSN = "file.db"
	require.Equal(t, "file.db", d.ConnectionString())
}
