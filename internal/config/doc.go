// Package config provides user configuration management for the adviceboard client.
//
// This package manages a YAML-based configuration file that stores the backend
// endpoint and application preferences. The configuration follows OS-specific
// conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/adviceboard/config.yaml or $HOME/.config/adviceboard/config.yaml
//   - macOS: $HOME/.config/adviceboard/config.yaml
//   - Windows: %LOCALAPPDATA%\adviceboard\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores credentials or the session token in
// config.yaml. The token lives in its own file (see GetTokenPath), managed by
// the session package, so the config file stays safe to share in bug reports.
//
// # Usage Example
//
//	settings, err := config.LoadSettings()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	settings.Server.BaseURL = "https://board.example.com/api"
//
//	// Save changes atomically
//	if err := settings.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global settings use sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
