package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	SQLitePath        string
	DBConnectAttempts int

	JWTSecret string
	JWTTTL    time.Duration

	ServerPort     string
	CORSOrigins    string
	RequestTimeout time.Duration
	LogMode        string

	// StudyTimezone names the location whose calendar days are used for streaks.
	StudyTimezone           string
	CertificateCodeAttempts int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "learning_platform")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "coursehub.db")
	v.SetDefault("DB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("JWT_TTL", 72*time.Hour)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("STUDY_TIMEZONE", "UTC")
	v.SetDefault("CERTIFICATE_CODE_ATTEMPTS", 5)
	v.AutomaticEnv()

	cfg := &Config{
		DBDriver:                strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:                  v.GetString("DB_HOST"),
		DBPort:                  v.GetString("DB_PORT"),
		DBUser:                  v.GetString("DB_USER"),
		DBPassword:              v.GetString("DB_PASSWORD"),
		DBName:                  v.GetString("DB_NAME"),
		DBSSLMode:               v.GetString("DB_SSLMODE"),
		SQLitePath:              v.GetString("SQLITE_PATH"),
		DBConnectAttempts:       v.GetInt("DB_CONNECT_ATTEMPTS"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTTTL:                  v.GetDuration("JWT_TTL"),
		ServerPort:              v.GetString("SERVER_PORT"),
		CORSOrigins:             v.GetString("CORS_ORIGINS"),
		RequestTimeout:          v.GetDuration("REQUEST_TIMEOUT"),
		LogMode:                 v.GetString("LOG_MODE"),
		StudyTimezone:           v.GetString("STUDY_TIMEZONE"),
		CertificateCodeAttempts: v.GetInt("CERTIFICATE_CODE_ATTEMPTS"),
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN renders the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) Location() (*time.Location, error) {
	if c.StudyTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.StudyTimezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid STUDY_TIMEZONE %q", c.StudyTimezone)
	}
	return loc, nil
}
