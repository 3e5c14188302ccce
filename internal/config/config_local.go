//go:build !gcloud

package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads ENV_FILE (default .env) into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// Validate accepts an empty configuration; the task queue is then disabled.
func (c *TaskQueueConfig) Validate() error {
	return nil
}

func (c *TaskQueueConfig) Enabled() bool {
	return c.PrimindTasksURL != ""
}
