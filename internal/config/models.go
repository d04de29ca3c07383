package config

// Settings represents the entire user configuration file.
// This stores the backend endpoint and application preferences.
type Settings struct {
	Version     int          `yaml:"version"`
	Server      *Server      `yaml:"server,omitempty"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Server describes how to reach the advice-board backend.
type Server struct {
	// BaseURL is the API root, including any path prefix
	// (e.g., "http://localhost:4000/api").
	BaseURL string `yaml:"base_url"`
}

// Preferences represents application-wide user preferences.
// Note: the session token is NEVER stored here - it lives in its own file
// next to the config so the config stays safe to share in bug reports.
type Preferences struct {
	// ConfirmDeletes controls whether destructive actions prompt first.
	// Deletes always prompt when true; the CLI --yes flag overrides per-run.
	ConfirmDeletes bool `yaml:"confirm_deletes"`
}

// DefaultBaseURL is the backend API root used when no config file exists.
const DefaultBaseURL = "http://localhost:4000/api"

// NewSettings creates a new Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Server: &Server{
			BaseURL: DefaultBaseURL,
		},
		Preferences: &Preferences{
			ConfirmDeletes: true,
		},
	}
}

// ConfirmDeletes reports whether destructive actions should prompt,
// defaulting to true when the preferences section is missing.
func (s *Settings) ConfirmDeletes() bool {
	if s.Preferences == nil {
		return true
	}
	return s.Preferences.ConfirmDeletes
}

// ServerBaseURL returns the configured backend root, falling back to the
// default when the server section is missing or empty.
func (s *Settings) ServerBaseURL() string {
	if s.Server == nil || s.Server.BaseURL == "" {
		return DefaultBaseURL
	}
	return s.Server.BaseURL
}
