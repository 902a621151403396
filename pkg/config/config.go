package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Favorites storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local"`
	Port         int    `envconfig:"PORT" default:"3001"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:3002"`
	RateLimit    int    `envconfig:"RATE_LIMIT" default:"20"`

	OMDB struct {
		APIKey  string        `envconfig:"OMDB_API_KEY"`
		BaseURL string        `envconfig:"OMDB_BASE_URL" default:"http://www.omdbapi.com/"`
		Timeout time.Duration `envconfig:"OMDB_TIMEOUT" default:"10s"`
	}
	Favorites struct {
		Driver  string `envconfig:"FAVORITES_DRIVER" default:"file"`
		DataDir string `envconfig:"FAVORITES_DATA_DIR" default:"data"`
	}
	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	DynamoDB struct {
		Region         string `envconfig:"DDB_REGION"`
		Endpoint       string `envconfig:"DDB_ENDPOINT"`
		AccessKey      string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey      string `envconfig:"DDB_SECRET_KEY"`
		SessionToken   string `envconfig:"DDB_SESSION_TOKEN"`
		FavoritesTable string `envconfig:"DDB_FAVORITES_TABLE" default:"favorites"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.Favorites.Driver {
	case DriverFile, DriverPostgres, DriverDynamoDB:
	default:
		return nil, fmt.Errorf("load config error: unknown favorites driver %q", cfg.Favorites.Driver)
	}

	return cfg, nil
}

// Origins splits AllowOrigins on commas, dropping blanks.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
