package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	AppName    string
	ServerPort string

	DBDriver    string // sqlite, postgres
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string
	SQLitePath  string

	JWTSecret     string
	JWTExpiration time.Duration

	SessionSecret     string
	SessionExpiration time.Duration

	SendgridAPIKey string
	MailFrom       string

	RollbarToken string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_NAME", "Learning Platform")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "learning_platform")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "learning_platform.db")
	v.SetDefault("JWT_SECRET", "dev-jwt-secret-change-me")
	v.SetDefault("JWT_EXPIRE_MIN", 60)
	v.SetDefault("SESSION_SECRET", "dev-secret-key-change-me")
	v.SetDefault("SESSION_EXPIRE_MIN", 720)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM", "noreply@localhost")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.AutomaticEnv()

	cfg := &Config{
		Env:               v.GetString("APP_ENV"),
		AppName:           v.GetString("APP_NAME"),
		ServerPort:        v.GetString("SERVER_PORT"),
		DBDriver:          v.GetString("DB_DRIVER"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTExpiration:     time.Duration(v.GetInt("JWT_EXPIRE_MIN")) * time.Minute,
		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionExpiration: time.Duration(v.GetInt("SESSION_EXPIRE_MIN")) * time.Minute,
		SendgridAPIKey:    v.GetString("SENDGRID_API_KEY"),
		MailFrom:          v.GetString("MAIL_FROM"),
		RollbarToken:      v.GetString("ROLLBAR_TOKEN"),
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTExpiration <= 0 {
		return nil, errors.New("JWT_EXPIRE_MIN must be positive")
	}
	return cfg, nil
}

// PostgresDSN builds the connection string from DATABASE_URL or the DB_* parts.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
