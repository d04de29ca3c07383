package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "adviceboard"
	if !strings.Contains(configDir, "adviceboard") {
		t.Errorf("GetConfigDir() = %v, should contain 'adviceboard'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestGetTokenPath(t *testing.T) {
	tokenPath, err := GetTokenPath()
	if err != nil {
		t.Fatalf("GetTokenPath() error = %v", err)
	}

	if filepath.Base(tokenPath) != "token" {
		t.Errorf("GetTokenPath() should end with 'token', got: %v", tokenPath)
	}

	// Token and config must live side by side
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Dir(tokenPath) != filepath.Dir(configPath) {
		t.Errorf("token dir %v != config dir %v", filepath.Dir(tokenPath), filepath.Dir(configPath))
	}
}

func TestNewSettings(t *testing.T) {
	settings := NewSettings()

	if settings.Version != 1 {
		t.Errorf("NewSettings().Version = %v, want 1", settings.Version)
	}

	if settings.Server == nil || settings.Server.BaseURL != DefaultBaseURL {
		t.Errorf("NewSettings().Server.BaseURL should default to %v", DefaultBaseURL)
	}

	if settings.Preferences == nil || !settings.Preferences.ConfirmDeletes {
		t.Error("NewSettings() should default to confirming deletes")
	}
}

func TestServerBaseURL_Fallback(t *testing.T) {
	var s Settings
	if got := s.ServerBaseURL(); got != DefaultBaseURL {
		t.Errorf("ServerBaseURL() with nil server = %v, want %v", got, DefaultBaseURL)
	}

	s.Server = &Server{BaseURL: ""}
	if got := s.ServerBaseURL(); got != DefaultBaseURL {
		t.Errorf("ServerBaseURL() with empty base = %v, want %v", got, DefaultBaseURL)
	}

	s.Server.BaseURL = "https://board.example.com/api"
	if got := s.ServerBaseURL(); got != "https://board.example.com/api" {
		t.Errorf("ServerBaseURL() = %v, want configured value", got)
	}
}

func TestSettingsSaveAndReload(t *testing.T) {
	// Redirect the config dir into a temp location
	tmpDir := t.TempDir()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("LOCALAPPDATA", tmpDir)
	default:
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		t.Setenv("HOME", tmpDir)
	}

	settings := NewSettings()
	settings.Server.BaseURL = "http://127.0.0.1:9000/api"
	if err := settings.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "http://127.0.0.1:9000/api") {
		t.Error("saved config should contain the base URL")
	}

	loaded, err := ReloadSettings()
	if err != nil {
		t.Fatalf("ReloadSettings() error = %v", err)
	}
	if loaded.ServerBaseURL() != "http://127.0.0.1:9000/api" {
		t.Errorf("reloaded base URL = %v, want http://127.0.0.1:9000/api", loaded.ServerBaseURL())
	}
}

func TestLoadSettings_BadVersion(t *testing.T) {
	tmpDir := t.TempDir()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("LOCALAPPDATA", tmpDir)
	default:
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		t.Setenv("HOME", tmpDir)
	}

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if err := os.WriteFile(configPath, []byte("version: 99\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := ReloadSettings(); err == nil {
		t.Error("ReloadSettings() should reject unsupported config versions")
	}
}
