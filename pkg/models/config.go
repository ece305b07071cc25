package models

// Config holds the settings read from .tarsconfig, the environment and .env.
type Config struct {
	DataFile        string   `yaml:"data_file" mapstructure:"data_file"`
	DefaultPriority Priority `yaml:"default_priority" mapstructure:"default_priority"`
	DefaultStatus   Status   `yaml:"default_status" mapstructure:"default_status"`
	Color           bool     `yaml:"color" mapstructure:"color"`
	EventsEnabled   bool     `yaml:"events_enabled" mapstructure:"events_enabled"`
	LogLevel        string   `yaml:"log_level" mapstructure:"log_level"`
	// UpcomingHours is how far ahead `tars due` looks for undone tasks.
	UpcomingHours   int      `yaml:"upcoming_hours" mapstructure:"upcoming_hours"`
}
