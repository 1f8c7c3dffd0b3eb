package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite, postgres
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// DSN overrides the individual connection fields when set. For sqlite it
	// is the file path (or ":memory:").
	DSN string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// Load reads the yaml config file if present, falls back to defaults, and
// applies environment overrides on top.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			Username: "postgres",
			Database: "roomsync",
		},
		JWT: JWTConfig{
			Secret:     "roomsync-secret-key-change-in-production",
			ExpireHour: 24,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("BLUEPRINT_DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("BLUEPRINT_DB_PORT"); v != "" {
		c.Database.Port = v
	}
	if v := os.Getenv("BLUEPRINT_DB_USERNAME"); v != "" {
		c.Database.Username = v
	}
	if v := os.Getenv("BLUEPRINT_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("BLUEPRINT_DB_DATABASE"); v != "" {
		c.Database.Database = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("JWT_EXPIRE_HOUR"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.JWT.ExpireHour = hours
		}
	}
}

// PostgresDSN assembles the connection string from the individual fields
// unless an explicit DSN is configured.
func (d *DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.Username, d.Password, d.Database, d.Port)
}
