package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	JWTSecret string

	RedisURL string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	WorkerCount  int
	StreamMaxLen int64
	BacklogCron  string
	LogLevel     string
}

// LoadConfig reads .env (if present) and the process environment.
// Redis, Postgres and R2 are optional; an empty setting disables the feature.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found or error loading it, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("WORKER_COUNT", 2)
	v.SetDefault("STREAM_MAX_LEN", 10000)
	v.SetDefault("BACKLOG_CRON", "@every 15m")
	v.SetDefault("LOG_LEVEL", "info")

	workerCount := v.GetInt("WORKER_COUNT")
	if workerCount <= 0 {
		workerCount = 2
	}

	return &Config{
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		ServerPort: v.GetString("SERVER_PORT"),

		JWTSecret: v.GetString("JWT_SECRET"),

		RedisURL: v.GetString("REDIS_URL"),

		R2AccountID:       v.GetString("R2_ACCOUNT_ID"),
		R2AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      v.GetString("R2_BUCKET_NAME"),
		R2PublicURL:       v.GetString("R2_PUBLIC_URL"),

		WorkerCount:  workerCount,
		StreamMaxLen: v.GetInt64("STREAM_MAX_LEN"),
		BacklogCron:  v.GetString("BACKLOG_CRON"),
		LogLevel:     v.GetString("LOG_LEVEL"),
	}, nil
}

// DatabaseEnabled reports whether enough settings exist to reach Postgres.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != "" && c.DBName != ""
}

// MediaEnabled reports whether all R2 settings are present.
func (c *Config) MediaEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}
