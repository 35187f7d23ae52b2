package logger

// Config controls logger output destinations and verbosity.
type Config struct {
	// Level is one of DEBUG, INFO, WARNING, ERROR.
	Level string `yaml:"level"`

	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"` // "text" or "json"

	FileEnabled     bool   `yaml:"file_enabled"`
	FileFormat      string `yaml:"file_format"`
	FilePath        string `yaml:"file_path"`
	FileMaxSizeMB   int    `yaml:"file_max_size_mb"`
	FileMaxBackups  int    `yaml:"file_max_backups"`
	FileMaxAgeDays  int    `yaml:"file_max_age_days"`
}

// DefaultConfig returns a console-only INFO configuration.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FilePath:       "logs/mudden.log",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}
