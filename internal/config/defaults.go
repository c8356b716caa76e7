package config

const (
	defaultStateDir     = "~/.local/share/musort"
	defaultMode         = "default"
	defaultGenre        = "Unknown Genre"
	defaultProbeLimit   = 5
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultHistoryState = true
)

// defaultSkipNames are directory names never entered during the walk.
var defaultSkipNames = []string{".git", "__pycache__", "downloading", "iTunes"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Sort: Sort{
			Mode:         defaultMode,
			DefaultGenre: defaultGenre,
			ProbeLimit:   defaultProbeLimit,
		},
		Walk: Walk{
			SkipNames: append([]string{}, defaultSkipNames...),
		},
		History: History{
			Enabled: defaultHistoryState,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
