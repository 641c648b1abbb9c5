// Package config loads gamesense configuration from YAML files and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// IGDBConfig holds catalog API credentials and limits.
type IGDBConfig struct {
	ClientID     string `yaml:"client_id"`
	Token        string `yaml:"token"`
	ClientSecret string `yaml:"client_secret"`
	TimeoutSecs  int    `yaml:"timeout_seconds"`
}

// AgentConfig controls the title poller.
type AgentConfig struct {
	TitleFile    string `yaml:"title_file"`
	IntervalSecs int    `yaml:"interval_seconds"`
}

// RedisConfig controls the pub/sub publisher.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// LoggingConfig mirrors logging.Config for YAML loading.
type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Config holds application configuration.
type Config struct {
	DBPath  string        `yaml:"db_path"`
	DataDir string        `yaml:"data_dir"`
	Listen  string        `yaml:"listen"`
	IGDB    IGDBConfig    `yaml:"igdb"`
	Agent   AgentConfig   `yaml:"agent"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DBPath:  "gamesense.db",
		DataDir: "data",
		Listen:  ":8093",
		IGDB:    IGDBConfig{TimeoutSecs: 10},
		Agent:   AgentConfig{IntervalSecs: 5},
		Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "gamesense"},
		Logging: LoggingConfig{Format: "text", Level: "info"},
	}
}

// configPaths returns the list of paths to search for a config file.
func configPaths() []string {
	paths := []string{
		".gamesense.yaml",
		".gamesense.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamesense", "config.yaml"),
			filepath.Join(home, ".config", "gamesense", "config.yml"),
			filepath.Join(home, ".gamesense.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMESENSE_CONFIG > search paths > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMESENSE_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GAMESENSE_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GAMESENSE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("IGDB_CLIENT_ID"); v != "" {
		c.IGDB.ClientID = v
	}
	if v := os.Getenv("IGDB_TOKEN"); v != "" {
		c.IGDB.Token = v
	}
	if v := os.Getenv("IGDB_CLIENT_SECRET"); v != "" {
		c.IGDB.ClientSecret = v
	}
	if v := os.Getenv("GAMESENSE_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
}

// GetDBPath returns the cache database path, applying defaults.
func (c *Config) GetDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return "gamesense.db"
}

// GetDataDir returns the asset data root, applying defaults.
func (c *Config) GetDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return "data"
}

// IGDBTimeout returns the catalog request timeout.
func (c *Config) IGDBTimeout() time.Duration {
	if c.IGDB.TimeoutSecs > 0 {
		return time.Duration(c.IGDB.TimeoutSecs) * time.Second
	}
	return 10 * time.Second
}

// PollInterval returns the agent poll interval.
func (c *Config) PollInterval() time.Duration {
	if c.Agent.IntervalSecs > 0 {
		return time.Duration(c.Agent.IntervalSecs) * time.Second
	}
	return 5 * time.Second
}
