package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for studylog, stored in
// ~/.studylog/config.json. The file supports single-line // comments for
// documentation purposes.
type Config struct {
	// DataDir is the directory holding the SQLite database and its
	// backups. Empty means ~/.studylog.
	DataDir string `json:"data_dir"`
	// SyncPath is the user-visible export/import file. Empty means
	// <Documents>/StudyLog/entries.csv (or the STUDYLOG_SYNC_PATH
	// environment override).
	SyncPath string `json:"sync_path"`
	// SyncFormat is the default export format: "csv" or "json".
	SyncFormat string `json:"sync_format"`
}

// DefaultSyncFormat is used when the config file does not set one.
const DefaultSyncFormat = "csv"

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON
// parsing, allowing human-readable documentation inside the file.
const configTemplate = `// studylog configuration – ~/.studylog/config.json
//
// All settings are optional; the built-in defaults shown below work out
// of the box. Edit this file to customise studylog behaviour.
{
  // Directory holding the SQLite database and daily backups.
  // Empty = ~/.studylog
  "data_dir": "",

  // User-visible export/import file. Empty = a StudyLog folder in your
  // Documents directory. The STUDYLOG_SYNC_PATH environment variable
  // overrides both.
  "sync_path": "",

  // Default export format: "csv" or "json".
  "sync_format": "csv"
}
`

// configFilePath returns the path to ~/.studylog/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".studylog", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content
// starts with //. Only full-line comments are handled.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

func defaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{SyncFormat: DefaultSyncFormat}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return Config{
		DataDir:    filepath.Join(home, ".studylog"),
		SyncFormat: DefaultSyncFormat,
	}, nil
}

// Load reads ~/.studylog/config.json, creating it with annotated defaults
// on first run. Lines starting with // are treated as comments and
// stripped before JSON parsing.
func Load() (Config, error) {
	def, err := defaultConfig()
	if err != nil {
		return def, err
	}

	path, err := configFilePath()
	if err != nil {
		return def, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover
		// the options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return def, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields so callers always get a usable Config even
	// if the user only partially fills in the file.
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.SyncFormat == "" {
		cfg.SyncFormat = DefaultSyncFormat
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
