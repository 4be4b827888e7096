package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database     DatabaseConfigs     `toml:"database"`
	ApiServer    APIServerConfigs    `toml:"api_server"`
	Auth         AuthConfigs         `toml:"auth"`
	Redis        RedisConfigs        `toml:"redis"`
	Kafka        KafkaConfigs        `toml:"kafka"`
	Discord      DiscordConfigs      `toml:"discord"`
	ReactionRole ReactionRoleConfigs `toml:"reaction_role"`
	Dashboard    DashboardConfigs    `toml:"dashboard"`
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string `toml:"driver"`
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.DSN != "" {
		return d.DSN
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host        string   `toml:"host"`
	Port        string   `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type RedisConfigs struct {
	Addr string        `toml:"addr"`
	TTL  time.Duration `toml:"ttl"`
}

type KafkaConfigs struct {
	Addr    string `toml:"addr"`
	GroupID string `toml:"group_id"`
}

type DiscordConfigs struct {
	BotToken string `toml:"bot_token"`
	BotID    string `toml:"bot_id"`
}

type ReactionRoleConfigs struct {
	MaxBindings    int           `toml:"max_bindings"`
	IdempotencyTTL time.Duration `toml:"idempotency_ttl"`
	CacheTTL       time.Duration `toml:"cache_ttl"`
}

type DashboardConfigs struct {
	APIURL string `toml:"api_url"`
	Token  string `toml:"token"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver: "sqlite",
			DSN:    "reactrole.db",
		},
		ApiServer: APIServerConfigs{
			Port:        "8080",
			CORSOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Redis: RedisConfigs{TTL: 5 * time.Minute},
		Kafka: KafkaConfigs{GroupID: "reactrole-bot"},
		ReactionRole: ReactionRoleConfigs{
			MaxBindings:    20,
			IdempotencyTTL: 24 * time.Hour,
			CacheTTL:       10 * time.Minute,
		},
		Dashboard: DashboardConfigs{APIURL: "http://localhost:8080"},
	}
}

// Load builds the configurations from defaults, then the optional toml file,
// then the environment. A .env file in the working directory is loaded into
// the environment beforehand if it exists.
func Load(path string) (Configs, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode %s: %w", path, err)
		}
	}

	if err := overrideFromEnv(&cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func overrideFromEnv(cfg *Configs) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.DSN, "DB_DSN")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_NAME")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.ApiServer.Host, "API_HOST")
	setString(&cfg.ApiServer.Port, "API_PORT")
	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Kafka.Addr, "KAFKA_ADDR")
	setString(&cfg.Discord.BotToken, "DISCORD_BOT_TOKEN")
	setString(&cfg.Discord.BotID, "DISCORD_BOT_ID")
	setString(&cfg.Dashboard.APIURL, "DASHBOARD_API_URL")
	setString(&cfg.Dashboard.Token, "DASHBOARD_TOKEN")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.ApiServer.CORSOrigins = strings.Split(origins, ",")
	}

	if expiration := os.Getenv("TOKEN_EXPIRATION"); expiration != "" {
		d, err := time.ParseDuration(expiration)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_EXPIRATION: %w", err)
		}
		cfg.Auth.AccessToken.Expiration = d
	}

	return nil
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}
