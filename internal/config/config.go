package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	AppPort       string
	AppEnv        string
	ProductSvcURL string
	UserSvcURL    string
	JWTSecret     string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		AppPort:       getenv("APP_PORT", "8083"),
		AppEnv:        os.Getenv("APP_ENV"),
		ProductSvcURL: getenv("PRODUCT_SERVICE_URL", "http://localhost:8081"),
		UserSvcURL:    getenv("USER_SERVICE_URL", "http://localhost:8082"),
		JWTSecret:     os.Getenv("SECRET_KEY"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
