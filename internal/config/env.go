package config

import "github.com/joho/godotenv"

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() error {
	return godotenv.Load()
}
