package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects and configures the repository backend
type StorageConfig struct {
	Backend    string       `yaml:"backend" env:"REGISTRAR_BACKEND"`       // memory, file, sqlite
	Duplicates string       `yaml:"duplicates" env:"REGISTRAR_DUPLICATES"` // reject, overwrite
	File       FileConfig   `yaml:"file"`
	SQLite     SQLiteConfig `yaml:"sqlite"`
}

// FileConfig configures the file backend
type FileConfig struct {
	Path   string `yaml:"path" env:"REGISTRAR_FILE_PATH"`
	Format string `yaml:"format,omitempty" env:"REGISTRAR_FILE_FORMAT"` // empty = from extension
}

// SQLiteConfig configures the sqlite backend
type SQLiteConfig struct {
	Path        string   `yaml:"path" env:"REGISTRAR_SQLITE_PATH"`
	SaveTimeout Duration `yaml:"save_timeout,omitempty" env:"REGISTRAR_SQLITE_SAVE_TIMEOUT"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" env:"REGISTRAR_LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"REGISTRAR_LOG_FORMAT"` // json, console
}

// MetricsConfig configures Prometheus metric output
type MetricsConfig struct {
	// Textfile is written on exit in the node exporter textfile format
	Textfile string `yaml:"textfile,omitempty" env:"REGISTRAR_METRICS_TEXTFILE"`
}

// Duration wraps time.Duration for YAML and environment unmarshaling
type Duration time.Duration

// UnmarshalYAML parses duration strings like "30s"
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText parses duration strings like "30s"
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML outputs duration as string
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
