package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/kanat1390/network-actualizer/models"
)

const (
	EnvPrefix         = "ACTUALIZER"
	DefaultConfigFile = "config.yaml"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting of a run. It is loaded once and handed to the
// components by value.
type Config struct {
	DBUserName string `yaml:"db_user_name" envconfig:"DB_USER_NAME"`
	DBPassword string `yaml:"db_password" envconfig:"DB_PASSWORD"`
	DBServerIP string `yaml:"db_server_ip" envconfig:"DB_SERVER_IP"`
	DBName     string `yaml:"db_name" envconfig:"DB_NAME"`
	SQLDriver  string `yaml:"sql_driver" envconfig:"SQL_DRIVER"`

	RadioDataFilePath     string `yaml:"radio_data_file_path" envconfig:"RADIO_DATA_FILE_PATH"`
	ReportFilePath        string `yaml:"report_file_path" envconfig:"REPORT_FILE_PATH"`
	ReportMissingEntities bool   `yaml:"report_missing_entities" envconfig:"REPORT_MISSING_ENTITIES"`

	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	Schemas models.Schemas `yaml:"schemas" ignored:"true"`
}

// Default returns the configuration used when neither file nor environment
// provide a value.
func Default() Config {
	return Config{
		SQLDriver:         "SQL SERVER",
		RadioDataFilePath: "radio_data.xlsx",
		ReportFilePath:    "report.xlsx",
		LogLevel:          "info",
		LogFormat:         "text",
		Schemas:           models.DefaultSchemas(),
	}
}

// Load reads the YAML file at path (if it exists), applies ACTUALIZER_*
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFromFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to load config from file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFromFile unmarshals over cfg so unset keys keep their defaults.
// Schema overrides replace the default schema of their technology only.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	defaults := cfg.Schemas
	cfg.Schemas = nil
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return err
	}
	merged := make(models.Schemas, len(defaults))
	for tech, s := range defaults {
		merged[tech] = s
	}
	for tech, s := range cfg.Schemas {
		merged[models.Technology(strings.ToUpper(string(tech)))] = s
	}
	cfg.Schemas = merged
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SQLDriver) == "" {
		return fmt.Errorf("%w: sql_driver is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.DBName) == "" {
		return fmt.Errorf("%w: db_name is required", ErrInvalidConfig)
	}
	if c.ReportFilePath == "" {
		return fmt.Errorf("%w: report_file_path is required", ErrInvalidConfig)
	}
	if c.ReportFilePath == c.RadioDataFilePath {
		return fmt.Errorf("%w: report_file_path must differ from radio_data_file_path", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	for _, tech := range models.Technologies {
		s, ok := c.Schemas[tech]
		if !ok {
			return fmt.Errorf("%w: no schema for %s", ErrInvalidConfig, tech)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: %s schema: %v", ErrInvalidConfig, tech, err)
		}
	}
	for tech := range c.Schemas {
		if !known(tech) {
			return fmt.Errorf("%w: unknown technology %q in schemas", ErrInvalidConfig, tech)
		}
	}
	return nil
}

func known(tech models.Technology) bool {
	for _, t := range models.Technologies {
		if t == tech {
			return true
		}
	}
	return false
}
