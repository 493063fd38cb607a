package cloudgrab

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application-level configuration, loadable from a TOML file
// and overridable by CLI flags.
type Config struct {
	// OutputDir is where downloaded audio files are saved.
	OutputDir string `toml:"output_dir"`
	// Quality is the name of the audio quality preset.
	Quality string `toml:"quality"`
	// AutoImport hands each finished file to the media library application.
	AutoImport bool `toml:"auto_import"`
	// ImportApp is the media library application used by AutoImport.
	ImportApp string `toml:"import_app"`
	// DownloaderPath overrides the downloader executable location.
	DownloaderPath string `toml:"downloader_path"`
	// HistoryPath is the sqlite download history database.
	HistoryPath string `toml:"history_path"`
	// JournalPath is the session's operation journal.
	JournalPath string `toml:"journal_path"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		OutputDir:   filepath.Join(home, "Downloads"),
		Quality:     "high",
		AutoImport:  false,
		ImportApp:   "Music",
		HistoryPath: filepath.Join(home, ".local", "share", "cloudgrab", "history.sqlite3"),
		JournalPath: filepath.Join(home, ".local", "share", "cloudgrab", "journal.db"),
	}
}

// DefaultConfigPath is where LoadConfig looks when no path is given.
func DefaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cloudgrab", "config.toml")
	}
	return ""
}

// LoadConfig reads a TOML config file over the top of DefaultConfig. A missing
// file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}
