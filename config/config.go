package config

import (
	"encoding/json"
	"fmt"
	"medviz/anatomy"
	"medviz/log"
	"os"
	"path/filepath"
)

const ConfigFileName = "config.json"

// Config is the application configuration.
type Config struct {
	// ScriptDirs are the directories scanned for feature scripts.
	ScriptDirs []string `json:"script_dirs"`
	// ScriptExtensions are the file extensions treated as scripts.
	ScriptExtensions []string `json:"script_extensions"`
	// Interpreter runs the feature scripts, e.g. "python3".
	Interpreter string `json:"interpreter"`
	// DataDir holds the imaging files the feature scripts consume.
	DataDir string `json:"data_dir"`
	// DataFiles optionally overrides the imaging file per category code.
	DataFiles map[string]string `json:"data_files,omitempty"`
	// WatchScripts rebuilds the catalog when a script directory changes.
	WatchScripts bool `json:"watch_scripts"`
	// LaunchHistoryLimit bounds the persisted launch history.
	LaunchHistoryLimit int `json:"launch_history_limit"`

	// Logging configuration.
	LogsEnabled bool   `json:"logs_enabled"`
	LogsDir     string `json:"logs_dir,omitempty"`
	LogMaxSize  int    `json:"log_max_size"`
	LogMaxFiles int    `json:"log_max_files"`
	LogMaxAge   int    `json:"log_max_age"`
	LogCompress bool   `json:"log_compress"`
}

// GetConfigDir returns the path to the application's configuration
// directory. MEDVIZ_HOME overrides the default of ~/.medviz.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("MEDVIZ_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".medviz"), nil
}

// DefaultConfig returns the default configuration. Script and data
// directories default to the working directory, matching the layout the
// feature scripts ship in.
func DefaultConfig() *Config {
	return &Config{
		ScriptDirs:         []string{"."},
		ScriptExtensions:   []string{".py"},
		Interpreter:        "python3",
		DataDir:            "data",
		WatchScripts:       true,
		LaunchHistoryLimit: 50,
		LogsEnabled:        true,
		LogMaxSize:         10,
		LogMaxFiles:        5,
		LogMaxAge:          30,
		LogCompress:        true,
	}
}

// LoadConfig loads the configuration from disk. A missing or unreadable
// file yields the default configuration; a missing file is additionally
// written out so the user has something to edit.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			defaultCfg := DefaultConfig()
			if saveErr := SaveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}
		log.WarningLog.Printf("failed to read config file: %v", err)
		return DefaultConfig()
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}

	if len(cfg.ScriptExtensions) == 0 {
		cfg.ScriptExtensions = []string{".py"}
	}
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	if cfg.LaunchHistoryLimit <= 0 {
		cfg.LaunchHistoryLimit = 50
	}

	return &cfg
}

// SaveConfig saves the configuration to disk.
func SaveConfig(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// DataPath resolves the imaging file for a category: the per-category
// override when present, otherwise the category default inside DataDir.
func (c *Config) DataPath(cat anatomy.Category) string {
	info := cat.Info()
	if c.DataFiles != nil {
		if override, ok := c.DataFiles[info.Code]; ok && override != "" {
			if filepath.IsAbs(override) {
				return override
			}
			return filepath.Join(c.DataDir, override)
		}
	}
	return filepath.Join(c.DataDir, info.DataFile)
}

// LogConfig converts the config's log settings for the log package.
func (c *Config) LogConfig() *log.LogConfig {
	return &log.LogConfig{
		LogsEnabled:   c.LogsEnabled,
		LogsDir:       c.LogsDir,
		LogMaxSize:    c.LogMaxSize,
		LogMaxFiles:   c.LogMaxFiles,
		LogMaxAge:     c.LogMaxAge,
		LogCompress:   c.LogCompress,
		UseLaunchLogs: true,
	}
}
