// Package config loads service settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings carries everything the service needs to start.
type Settings struct {
	Addr      string
	MongoURI  string
	MongoDB   string
	UploadDir string
	OutputDir string
	TempDir   string
	Workers   int
}

// Load reads settings from the environment. A missing .env file is fine;
// deployed environments set real variables.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	return Settings{
		Addr:      getEnv("VIDEOMIX_ADDR", ":8080"),
		MongoURI:  getEnv("MONGODB_URI", ""),
		MongoDB:   getEnv("MONGODB_DATABASE", "videomix"),
		UploadDir: getEnv("VIDEOMIX_UPLOAD_DIR", "uploads"),
		OutputDir: getEnv("VIDEOMIX_OUTPUT_DIR", "output"),
		TempDir:   getEnv("VIDEOMIX_TEMP_DIR", "tmp"),
		Workers:   getEnvInt("VIDEOMIX_WORKERS", 2),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
