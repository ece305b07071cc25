// Package core contains the business logic for tars: configuration and the
// task manager that sits between the CLI and the task book.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/valter-silva-au/tars/pkg/models"
)

// ConfigFileName is the YAML config file looked up in the base path.
const ConfigFileName = ".tarsconfig"

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
}

// ConfigurationManager loads and validates tars configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager reads .tarsconfig with Viper. Values can be overridden
// by TARS_* environment variables, which may come from a .env file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager rooted at basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *models.Config {
	return &models.Config{
		DataFile:        "tasks.yaml",
		DefaultPriority: models.PriorityMedium,
		DefaultStatus:   models.StatusUndone,
		Color:           true,
		EventsEnabled:   true,
		LogLevel:        "info",
		UpcomingHours:   24,
	}
}

func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	if err := cm.loadDotEnv(); err != nil {
		return nil, err
	}

	def := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("TARS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_file", def.DataFile)
	v.SetDefault("defaults.priority", string(def.DefaultPriority))
	v.SetDefault("defaults.status", string(def.DefaultStatus))
	v.SetDefault("display.color", def.Color)
	v.SetDefault("events.enabled", def.EventsEnabled)
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("alerts.upcoming_hours", def.UpcomingHours)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	priority, err := models.ParsePriority(v.GetString("defaults.priority"))
	if err != nil {
		return nil, fmt.Errorf("reading %s: defaults.priority: %w", ConfigFileName, err)
	}
	status, err := models.ParseStatus(v.GetString("defaults.status"))
	if err != nil {
		return nil, fmt.Errorf("reading %s: defaults.status: %w", ConfigFileName, err)
	}

	cfg := &models.Config{
		DataFile:        v.GetString("data_file"),
		DefaultPriority: priority,
		DefaultStatus:   status,
		Color:           v.GetBool("display.color"),
		EventsEnabled:   v.GetBool("events.enabled"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		UpcomingHours:   v.GetInt("alerts.upcoming_hours"),
	}
	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv reads basePath/.env into the process environment. Variables
// already set take precedence.
func (cm *viperConfigManager) loadDotEnv() error {
	path := filepath.Join(cm.basePath, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking .env: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ValidateConfig checks cfg for values that would break the application.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		return fmt.Errorf("invalid config: data_file must not be empty")
	}
	if filepath.Base(cfg.DataFile) != cfg.DataFile {
		return fmt.Errorf("invalid config: data_file %q must be a file name, not a path", cfg.DataFile)
	}
	if _, err := models.ParsePriority(string(cfg.DefaultPriority)); err != nil {
		return fmt.Errorf("invalid config: defaults.priority: %w", err)
	}
	if _, err := models.ParseStatus(string(cfg.DefaultStatus)); err != nil {
		return fmt.Errorf("invalid config: defaults.status: %w", err)
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid config: log.level %q must be one of debug, info, warn, error, fatal", cfg.LogLevel)
	}
	if cfg.UpcomingHours < 0 {
		return fmt.Errorf("invalid config: alerts.upcoming_hours must not be negative, got %d", cfg.UpcomingHours)
	}
	return nil
}
