package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/xelobcoder/listing/pkg/customerror"
)

type Config struct {
	DbHost          string
	DbPort          string
	DbUser          string
	DbPassword      string
	DbName          string
	DbSSLMode       string
	DatabaseUrl     string
	WebHost         string
	WebPort         string
	UploadDir       string
	PlaceholderPath string
	LogLevel        string
}

func NewConfig(dotenvPath string) (*Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	var config Config
	config.DatabaseUrl = os.Getenv("DATABASE_URL")
	config.DbHost = os.Getenv("DB_HOST")
	config.DbPort = os.Getenv("DB_PORT")
	config.DbUser = os.Getenv("DB_USER")
	config.DbPassword = os.Getenv("DB_PASSWORD")
	config.DbName = os.Getenv("DB_NAME")
	if config.DatabaseUrl == "" {
		if config.DbHost == "" {
			return &Config{}, customerror.NewError(customerror.ErrValidation, "config.NewConfig", "", "DB_HOST incorrect")
		}
		if config.DbPort == "" {
			return &Config{}, customerror.NewError(customerror.ErrValidation, "config.NewConfig", "", "DB_PORT incorrect")
		}
		if config.DbUser == "" {
			return &Config{}, customerror.NewError(customerror.ErrValidation, "config.NewConfig", "", "DB_USER incorrect")
		}
		if config.DbPassword == "" {
			return &Config{}, customerror.NewError(customerror.ErrValidation, "config.NewConfig", "", "DB_PASSWORD incorrect")
		}
		if config.DbName == "" {
			return &Config{}, customerror.NewError(customerror.ErrValidation, "config.NewConfig", "", "DB_NAME incorrect")
		}
	}
	config.DbSSLMode = os.Getenv("DB_SSLMODE")
	if config.DbSSLMode == "" {
		config.DbSSLMode = "disable"
	}
	config.WebHost = os.Getenv("WEB_HOST")
	if config.WebHost == "" {
		config.WebHost = "0.0.0.0"
	}
	config.WebPort = os.Getenv("WEB_PORT")
	if config.WebPort == "" {
		config.WebPort = "8080"
	}
	config.UploadDir = os.Getenv("UPLOAD_DIR")
	if config.UploadDir == "" {
		config.UploadDir = "./public/uploads/properties"
	}
	config.PlaceholderPath = os.Getenv("PLACEHOLDER_PATH")
	if config.PlaceholderPath == "" {
		config.PlaceholderPath = "./public/placeholder-property.jpg"
	}
	config.LogLevel = os.Getenv("LOG_LEVEL")
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	return &config, nil
}

// ConnString prefers the full DATABASE_URL when present and otherwise
// assembles one from the individual fields.
func (config *Config) ConnString() string {
	if config.DatabaseUrl != "" {
		return config.DatabaseUrl
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.DbUser, config.DbPassword, config.DbHost, config.DbPort, config.DbName, config.DbSSLMode)
}
