package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Feed struct {
		FetchBatchSize  int    `env:"FEED_FETCH_BATCH_SIZE" env-default:"1000"`
		PageSize        int    `env:"FEED_PAGE_SIZE" env-default:"10"`
		RefreshSchedule string `env:"FEED_REFRESH_SCHEDULE" env-default:"0 4 * * *"`
	}
	Translate struct {
		Endpoint     string `env:"TRANSLATE_ENDPOINT" env-default:"https://translate.googleapis.com/translate_a/single"`
		TimeoutSecs  int    `env:"TRANSLATE_TIMEOUT_SECS" env-default:"3"`
		PerMinuteCap int    `env:"TRANSLATE_PER_MINUTE_CAP" env-default:"10"`
	}
	Storage struct {
		Region    string `env:"S3_REGION" env-default:"ap-south-1"`
		Bucket    string `env:"S3_BUCKET" env-default:"post-images"`
		Endpoint  string `env:"S3_ENDPOINT"`
		AccessKey string `env:"S3_ACCESS_KEY"`
		SecretKey string `env:"S3_SECRET_KEY"`
	}
	Auth struct {
		JwtSecret  string `env:"AUTH_JWT_SECRET"`
		TokenHours int    `env:"AUTH_TOKEN_HOURS" env-default:"24"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		var err error
		if _, statErr := os.Stat(".env"); statErr == nil {
			err = cleanenv.ReadConfig(".env", cfg)
		} else {
			err = cleanenv.ReadEnv(cfg)
		}
		if err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string used by both pgx and goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode)
}
