package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names a config file that takes precedence over the search
	EnvConfigPath = "REGISTRAR_CONFIG"
	// ConfigFileName is looked up in the working directory and written by init-config
	ConfigFileName = "registrar.yaml"
	// ConfigDirName is the registrar's directory under each config root
	ConfigDirName = "registrar"
)

// FindConfigPath returns the first registrar config file that exists, checking
// $REGISTRAR_CONFIG, ./registrar.yaml, then registrar/config.yaml under
// $XDG_CONFIG_HOME, ~/.config and /etc. It returns "" when none exists and
// the built-in defaults apply.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	for _, root := range configRoots() {
		path := filepath.Join(root, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// configRoots lists the directories searched after the working directory
func configRoots() []string {
	var roots []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		roots = append(roots, xdg)
	}
	if home := os.Getenv("HOME"); home != "" {
		roots = append(roots, filepath.Join(home, ".config"))
	}
	return append(roots, "/etc")
}

// EnsureConfigDir creates the directory that will hold configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0o755)
}

// fileExists reports whether path is a regular file, not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
