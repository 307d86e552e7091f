package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/causemap/causemap/pkg/pipeline"
	"github.com/causemap/causemap/pkg/session"
)

// Config holds user configuration loaded from the TOML config file.
// All fields are optional; zero values fall back to built-in defaults.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Generate GenerateConfig `toml:"generate"`
	Serve    ServeConfig    `toml:"serve"`
}

// StoreConfig selects and configures the session store backend.
type StoreConfig struct {
	// Backend is one of "file", "memory", "redis", or "mongo".
	// Default is "file".
	Backend string `toml:"backend"`

	// Dir overrides the session directory for the file backend.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis session backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongodb session backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// GenerateConfig overrides the default synthesis parameters.
type GenerateConfig struct {
	Nodes int    `toml:"nodes"`
	Depth int    `toml:"depth"`
	Seed  uint64 `toml:"seed"`
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// defaultConfig returns the built-in configuration.
func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017"},
		},
		Generate: GenerateConfig{
			Nodes: pipeline.DefaultNodes,
			Depth: pipeline.DefaultDepth,
			Seed:  pipeline.DefaultSeed,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults are returned.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// toRedisConfig converts to the session package's redis options.
func (c RedisConfig) toSession() session.RedisConfig {
	return session.RedisConfig{Addr: c.Addr, Password: c.Password, DB: c.DB}
}

// toMongoConfig converts to the session package's mongo options.
func (c MongoConfig) toSession() session.MongoConfig {
	return session.MongoConfig{URI: c.URI, Database: c.Database, Collection: c.Collection}
}
