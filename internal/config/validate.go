package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSort(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSort() error {
	switch c.Sort.Mode {
	case "default", "folder-mode":
	default:
		if _, err := strconv.Atoi(c.Sort.Mode); err != nil {
			return fmt.Errorf("sort.mode must be 'default', 'folder-mode', or a mode bitmask, got %q", c.Sort.Mode)
		}
	}
	if c.Sort.ProbeLimit < 1 {
		return errors.New("sort.probe_limit must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be 'console' or 'json', got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
