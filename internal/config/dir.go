// Package config resolves tr-migrator settings from defaults, config files
// and the environment.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "tr-migrator"

// Dir returns the tr-migrator configuration directory.
//
// Resolution:
//   - $TR_MIGRATOR_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/tr-migrator if set (respects XDG on any platform)
//   - %AppData%/tr-migrator on Windows
//   - ~/.config/tr-migrator on macOS and Linux
func Dir() string {
	if dir := os.Getenv("TR_MIGRATOR_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// GlobalFile returns the path of the user-wide config file, or "" when no
// config directory can be found.
func GlobalFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// EnvFile returns the path of the user-wide env file.
func EnvFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "env")
}
