package config

import "time"

// Config holds client core configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// DataDir holds the per-profile friend, ignore and highlight lists.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// SettingsDB is the sqlite file backing process-wide settings such as the identity salt.
	SettingsDB string `mapstructure:"settings_db" yaml:"settings_db"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`

	// AutoKick kicks ignored players on join while the local user is room admin.
	AutoKick bool `mapstructure:"auto_kick" yaml:"auto_kick"`
	// Notify enables join alerts for players flagged as notify-worthy.
	Notify bool `mapstructure:"notify" yaml:"notify"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              "127.0.0.1:46631",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DataDir:           "data",
		SettingsDB:        "data/settings.db",
		LogLevel:          "info",
		AutoKick:          false,
		Notify:            true,
	}
}
