package config

import (
	"fmt"
	"os"
	"strings"
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Addr() string {
	port := envOr("APP_PORT", "8080")
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// AllowedOrigins lists the comma-separated CORS_ALLOWED_ORIGINS; empty
// means any origin.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// JournalFile is where game events are written; empty disables the file.
func JournalFile() string {
	return os.Getenv("JOURNAL_FILE")
}

type Storage string

const (
	StoragePostgres Storage = "postgres"
	StorageMemory   Storage = "memory"
)

func StorageBackend() (Storage, error) {
	switch s := Storage(strings.ToLower(envOr("STORAGE", string(StoragePostgres)))); s {
	case StoragePostgres, StorageMemory:
		return s, nil
	default:
		return "", fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, s)
	}
}
