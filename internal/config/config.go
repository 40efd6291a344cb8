package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the persisted tickboard configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Board   BoardConfig   `toml:"board"`
	Logging LoggingConfig `toml:"logging"`
}

// BackendConfig locates the ticket, staff, and account services.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TicketService  string `toml:"ticket_service"`
	StaffService   string `toml:"staff_service"`
	UserService    string `toml:"user_service"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// BoardConfig holds board display toggles.
type BoardConfig struct {
	ShowReporter     bool `toml:"show_reporter"`
	ShowDateFinished bool `toml:"show_date_finished"`
}

// LoggingConfig holds runtime logger settings.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig enables the parseable file sink used during development.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8080",
			TicketService:  "TicketService",
			StaffService:   "MisStaffService",
			UserService:    "user",
			TimeoutSeconds: 10,
		},
		Board: BoardConfig{
			ShowReporter:     true,
			ShowDateFinished: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: false,
				Dir:     "",
			},
		},
	}
}

// Load reads a TOML config over the given defaults. A missing or empty file
// yields the defaults unchanged.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url is required")
	}
	if strings.TrimSpace(c.Backend.TicketService) == "" {
		return errors.New("backend.ticket_service is required")
	}
	if strings.TrimSpace(c.Backend.StaffService) == "" {
		return errors.New("backend.staff_service is required")
	}
	if strings.TrimSpace(c.Backend.UserService) == "" {
		return errors.New("backend.user_service is required")
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be >= 0, got %d", c.Backend.TimeoutSeconds)
	}
	return nil
}

// RequestTimeout returns the backend timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// EnsureConfigDir creates the directory holding the config file.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
