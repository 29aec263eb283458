package env

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files.
// ENV_PATH, when set, overrides defaultPaths. Variables already present in
// the process environment are never overwritten.
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := defaultPaths
	if envPath := os.Getenv("ENV_PATH"); envPath != "" {
		paths = []string{envPath}
	} else {
		slog.Info("ENV_PATH is not set, using default paths", "defaultPaths", defaultPaths)
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	if len(existing) == 0 {
		err := errors.New("no .env file found")
		if env == "local" || env == "" {
			slog.Error("Failed to load environment variables in local mode", "error", err, "paths", paths)
			return err
		}
		slog.Debug("Skipping .env ...")
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		slog.Error("Failed to parse .env file", "error", err, "paths", existing)
		return err
	}
	return nil
}
