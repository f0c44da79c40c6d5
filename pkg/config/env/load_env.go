package env

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the first existing .env file among ENV_PATH and the given
// candidates. Variables already set in the process win over file values.
// A missing file is an error only when appEnv is "local" or empty.
func LoadDotEnv(appEnv string, candidates ...string) error {
	if p := os.Getenv("ENV_PATH"); p != "" {
		candidates = []string{p}
	}

	for _, path := range candidates {
		err := godotenv.Load(path)
		if err == nil {
			slog.Debug("Loaded environment file", "path", path)
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	if appEnv == "local" || appEnv == "" {
		return fmt.Errorf("no .env file found in %v", candidates)
	}
	slog.Debug("Skipping .env ...", "env", appEnv)
	return nil
}
