package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"` // root of the CSV files, defaults to ./data
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// Load builds the configuration from defaults, an optional YAML file pointed
// at by ATTENDANCE_CONFIG, and environment variables, in that order of
// precedence (env wins).
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
	}

	if path := os.Getenv("ATTENDANCE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if host := os.Getenv("WEB_HOST"); host != "" {
		cfg.Server.Host = host
	}
	cfg.Server.Port = envInt("WEB_PORT", cfg.Server.Port)
	if dir := os.Getenv("ATTENDANCE_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}

	return cfg, nil
}
