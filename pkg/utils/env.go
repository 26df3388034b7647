package utils

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from multiple .env files
// Returns a map of environment variables, with later files taking precedence
// over earlier ones and the real environment taking precedence over both
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		values, err := godotenv.Read(file)
		if err != nil {
			log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			continue
		}

		for key, value := range values {
			config[key] = value
		}
	}

	// Read all environment variables into map
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if ok && key != "" {
			config[key] = value
		}
	}

	return config
}
