package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB_HOST             string
	DB_PORT             string
	DB_USER             string
	DB_PASSWORD         string
	DB_NAME             string
	ES_URL              string
	ES_USER             string
	ES_PASSWORD         string
	ES_INDEX            string
	JWT_SECRET          string
	KAFKA_ADDRESS       string
	LOG_LEVEL           string
	HTTP_ADDR           string
	SEED_ADMIN_EMAIL    string
	SEED_ADMIN_PASSWORD string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:             os.Getenv("DB_HOST"),
		DB_PORT:             os.Getenv("DB_PORT"),
		DB_USER:             os.Getenv("DB_USER"),
		DB_PASSWORD:         os.Getenv("DB_PASSWORD"),
		DB_NAME:             os.Getenv("DB_NAME"),
		ES_URL:              os.Getenv("ES_URL"),
		ES_USER:             os.Getenv("ES_USER"),
		ES_PASSWORD:         os.Getenv("ES_PASSWORD"),
		ES_INDEX:            os.Getenv("ES_INDEX"),
		JWT_SECRET:          os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS:       os.Getenv("KAFKA_ADDRESS"),
		LOG_LEVEL:           os.Getenv("LOG_LEVEL"),
		HTTP_ADDR:           os.Getenv("HTTP_ADDR"),
		SEED_ADMIN_EMAIL:    os.Getenv("SEED_ADMIN_EMAIL"),
		SEED_ADMIN_PASSWORD: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	if config.ES_INDEX == "" {
		config.ES_INDEX = "products"
	}
	if config.HTTP_ADDR == "" {
		config.HTTP_ADDR = ":8080"
	}

	return config, nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)
}
