// Package config holds the node configuration: identity, data directory
// and worker pool sizing. Values come from defaults, then an optional YAML
// file, then environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the node configuration
type Config struct {
	NodeID         string `yaml:"node_id"`
	NodeName       string `yaml:"node_name"`
	DataDir        string `yaml:"data_dir"`
	HTTPAddr       string `yaml:"http_addr"`
	PoolWorkers    int    `yaml:"pool_workers"`
	PoolQueueDepth int    `yaml:"pool_queue_depth"`
}

// DefaultConfig returns the default node configuration
func DefaultConfig() Config {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return Config{
		NodeID:         hostname,
		NodeName:       hostname,
		DataDir:        "data",
		HTTPAddr:       ":4200",
		PoolWorkers:    runtime.NumCPU(),
		PoolQueueDepth: 64,
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (ignored when path is empty or missing) and environment overrides.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return config, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&config)

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func applyEnv(config *Config) {
	if v := os.Getenv("SHARDLITE_NODE_ID"); v != "" {
		config.NodeID = v
	}
	if v := os.Getenv("SHARDLITE_NODE_NAME"); v != "" {
		config.NodeName = v
	}
	if v := os.Getenv("SHARDLITE_DATA_DIR"); v != "" {
		config.DataDir = v
	}
	if v := os.Getenv("SHARDLITE_HTTP_ADDR"); v != "" {
		config.HTTPAddr = v
	}
	if v := os.Getenv("SHARDLITE_POOL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.PoolWorkers = n
		}
	}
	if v := os.Getenv("SHARDLITE_POOL_QUEUE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			config.PoolQueueDepth = n
		}
	}
}

// Validate checks the configuration invariants
func (c Config) Validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("node_id must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.PoolWorkers <= 0 {
		return fmt.Errorf("pool_workers must be positive, got %d", c.PoolWorkers)
	}
	if c.PoolQueueDepth < 0 {
		return fmt.Errorf("pool_queue_depth must not be negative, got %d", c.PoolQueueDepth)
	}
	return nil
}
