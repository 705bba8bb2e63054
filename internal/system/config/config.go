/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package config provides structures and functions for loading and managing configurations.
package config

import (
	"os"
	"path/filepath"

	"github.com/sqlagent/jobsync/internal/system/log"

	yaml "gopkg.in/yaml.v3"
)

// DataSource holds the database connection details of the remote agent store.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// SyncConfig holds the synchronization behaviour settings.
type SyncConfig struct {
	SimulateOnly bool `yaml:"simulate_only"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config holds the complete configuration.
type Config struct {
	Database DataSource `yaml:"database"`
	Sync     SyncConfig `yaml:"sync"`
	Log      LogConfig  `yaml:"log"`
}

// DefaultConfig returns a configuration pointing at a local SQLite store.
func DefaultConfig() *Config {
	return &Config{
		Database: DataSource{
			Type:         "sqlite",
			Path:         "jobsync.db",
			Options:      "_pragma=foreign_keys(1)",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Log: LogConfig{
			Level: log.DefaultLogLevel,
		},
	}
}

// LoadConfig loads the configurations from the specified YAML file.
// Values missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
