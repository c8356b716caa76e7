package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSort()
	c.normalizeWalk()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TargetDir) != "" {
		if c.Paths.TargetDir, err = expandPath(c.Paths.TargetDir); err != nil {
			return fmt.Errorf("paths.target_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.History.Path) != "" {
		if c.History.Path, err = expandPath(c.History.Path); err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSort() {
	c.Sort.Mode = strings.ToLower(strings.TrimSpace(c.Sort.Mode))
	if c.Sort.Mode == "" {
		c.Sort.Mode = defaultMode
	}
	c.Sort.DefaultGenre = strings.TrimSpace(c.Sort.DefaultGenre)
	if c.Sort.DefaultGenre == "" {
		c.Sort.DefaultGenre = defaultGenre
	}
	if c.Sort.ProbeLimit == 0 {
		c.Sort.ProbeLimit = defaultProbeLimit
	}
}

func (c *Config) normalizeWalk() {
	if len(c.Walk.SkipNames) == 0 {
		c.Walk.SkipNames = append([]string{}, defaultSkipNames...)
	}
	for i, name := range c.Walk.SkipNames {
		c.Walk.SkipNames[i] = strings.TrimSpace(name)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
