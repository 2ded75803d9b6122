// Package config defines and loads application configuration.
package config

// Config holds all application configuration, organized into logical
// groups.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects and configures the snapshot store backend.
// URL is required for the postgres driver, Path for sqlite; the memory
// driver needs neither and loses state on restart.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite memory"`
	URL    string `mapstructure:"url" validate:"required_if=Driver postgres"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// SessionConfig tunes session generation.
type SessionConfig struct {
	Size            int     `mapstructure:"size" validate:"required,gt=0,lte=50"`
	NewCardRatio    float64 `mapstructure:"new_card_ratio" validate:"gte=0,lte=1"`
	PiProbability   float64 `mapstructure:"pi_probability" validate:"gte=0,lte=1"`
	DateProbability float64 `mapstructure:"date_probability" validate:"gte=0,lte=1"`
	MaxPiDrills     int     `mapstructure:"max_pi_drills" validate:"gte=0"`
	MaxDateDrills   int     `mapstructure:"max_date_drills" validate:"gte=0"`
}
