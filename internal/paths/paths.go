// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user directories.
const appName = "scatterplot"

// CWD-relative directory names for project-local setups.
const (
	LocalConfigDirName = ".scatter"
	LocalDataDirName   = ".scatter-db"
)

// ConfigFileName is the viper config file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SCATTER_CONFIG_DIR"
	EnvDataDir   = "SCATTER_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/scatterplot (fallback ~/.config/scatterplot)
// macOS:   ~/Library/Application Support/scatterplot
// Windows: %APPDATA%/scatterplot
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/scatterplot (fallback ~/.local/share/scatterplot)
// macOS:   ~/Library/Application Support/scatterplot/data
// Windows: %APPDATA%/scatterplot/data
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "data"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SCATTER_CONFIG_DIR env > ./.scatter if present > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	if local, ok := localDir(LocalConfigDirName); ok {
		return local, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > SCATTER_DATA_DIR env > config value > ./.scatter-db if present >
// DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if local, ok := localDir(LocalDataDirName); ok {
		return local, nil
	}
	return DefaultDataDir()
}

// localDir reports whether name exists as a directory under the working
// directory.
func localDir(name string) (string, bool) {
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", false
	}
	dir := filepath.Join(cwd, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}
