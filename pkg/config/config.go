package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Api struct {
		BaseURL       string        `env:"API_BASE_URL"`
		UploadPath    string        `env:"API_UPLOAD_PATH" env-default:"/user/upload/story"`
		UploadField   string        `env:"API_UPLOAD_FIELD" env-default:"media"`
		UploadTimeout time.Duration `env:"API_UPLOAD_TIMEOUT" env-default:"5m"`
		SelfID        string        `env:"API_SELF_ID"`
	}
	Auth struct {
		Token string `env:"AUTH_TOKEN"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Redis struct {
		Addr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Pass string `env:"REDIS_PASS"`
		DB   int    `env:"REDIS_DB" env-default:"0"`
	}
	Playback struct {
		ImageDuration time.Duration `env:"PLAYBACK_IMAGE_DURATION" env-default:"5s"`
		Tick          time.Duration `env:"PLAYBACK_TICK" env-default:"50ms"`
	}
	Refresh struct {
		Minutes int `env:"REFRESH_MINUTES" env-default:"15"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string in keyword form.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}
