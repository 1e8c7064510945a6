package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// ReadEnvFile parses a .env file into a map without touching the process
// environment. A missing file yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return env, nil
}

// loadEnvFile fills c.Env from path. The keys are kept for reference only and
// never override settings. A file that cannot be read or parsed leaves Env
// empty and is reported by LogEnvFile instead of failing startup.
func (c *Config) loadEnvFile(path string) {
	c.EnvFile.File = path
	env, err := ReadEnvFile(path)
	if err != nil {
		c.Env = map[string]string{}
		c.envErr = err
		return
	}
	c.Env = env
}

// EnvFileErr returns the error hit while reading the .env file, if any.
func (c *Config) EnvFileErr() error {
	return c.envErr
}

// LogEnvFile reports how many keys the .env file held, never their values,
// or warns when the file was ignored.
func (c *Config) LogEnvFile(logger *slog.Logger) {
	if c.envErr != nil {
		logger.Warn("env file ignored", "path", c.EnvFile.File, "err", c.envErr)
		return
	}
	if len(c.Env) == 0 {
		return
	}
	logger.Debug("loaded env file", "path", c.EnvFile.File, "keys", len(c.Env))
}
