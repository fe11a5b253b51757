package config

import (
	"log"
	"os"
)

type Config struct {
	Port          string
	DBDSN         string
	UploadDir     string
	LogFile       string
	ClientOrigin  string
	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBDSN:         getenv("DB_DSN", "woolshop.db"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		LogFile:       getenv("LOG_FILE", ""),
		ClientOrigin:  getenv("CLIENT_ORIGIN", "http://localhost:5173"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@woolshop.test"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s UPLOAD_DIR=%s CLIENT_ORIGIN=%s", cfg.Port, cfg.DBDSN, cfg.UploadDir, cfg.ClientOrigin)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
