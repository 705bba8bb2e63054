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

// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/sqlagent/jobsync/internal/system/config"
	"github.com/sqlagent/jobsync/internal/system/database/client"
	"github.com/sqlagent/jobsync/internal/system/database/model"
	"github.com/sqlagent/jobsync/internal/system/log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// dbConfig represents the resolved driver configuration.
type dbConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient(ctx context.Context) (client.DBClientInterface, error)
	Close() error
}

// DBProvider is the implementation of DBProviderInterface. It lazily opens a single
// pooled connection to the configured data source.
type DBProvider struct {
	dataSource config.DataSource
	home       string
	client     client.DBClientInterface
	mutex      sync.Mutex
}

// NewDBProvider creates a provider for the given data source. Relative SQLite paths are
// resolved against home.
func NewDBProvider(dataSource config.DataSource, home string) DBProviderInterface {
	return &DBProvider{
		dataSource: dataSource,
		home:       home,
	}
}

// GetDBClient returns the database client, opening the connection on first use.
// Not required to close the returned client manually since the provider owns the pool.
func (d *DBProvider) GetDBClient(ctx context.Context) (client.DBClientInterface, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.client != nil {
		return d.client, nil
	}

	dbClient, err := d.openClient(ctx)
	if err != nil {
		return nil, err
	}
	d.client = dbClient
	return d.client, nil
}

// Close closes the underlying connection pool if it was opened.
func (d *DBProvider) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// openClient opens and verifies a connection pool for the data source.
func (d *DBProvider) openClient(ctx context.Context) (client.DBClientInterface, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider"))

	cfg, err := getDBConfig(d.dataSource, d.home)
	if err != nil {
		return nil, err
	}
	dbName := d.dataSource.Name
	if dbName == "" {
		dbName = d.dataSource.Path
	}

	db, err := sql.Open(cfg.driverName, cfg.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}

	if d.dataSource.MaxOpenConns > 0 {
		db.SetMaxOpenConns(d.dataSource.MaxOpenConns)
	}
	if d.dataSource.MaxIdleConns > 0 {
		db.SetMaxIdleConns(d.dataSource.MaxIdleConns)
	}
	if d.dataSource.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(d.dataSource.ConnMaxLifetime) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database %s: %w (close error: %w)", dbName, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database %s: %w", dbName, err)
	}

	// Enable foreign key constraints for SQLite databases
	if cfg.driverName == model.DataSourceTypeSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to enable foreign key constraints for %s: %w (close error: %w)",
					dbName, err, closeErr)
			}
			return nil, fmt.Errorf("failed to enable foreign key constraints for %s: %w", dbName, err)
		}
	}

	logger.Debug("Opened database connection", log.String("type", cfg.driverName), log.String("name", dbName))
	return client.NewDBClient(model.NewDB(db), cfg.driverName), nil
}

// getDBConfig returns the driver configuration for the data source.
func getDBConfig(dataSource config.DataSource, home string) (dbConfig, error) {
	switch dataSource.Type {
	case model.DataSourceTypePostgres:
		sslMode := dataSource.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return dbConfig{
			driverName: model.DataSourceTypePostgres,
			dsn: fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
				dataSource.Name, sslMode),
		}, nil
	case model.DataSourceTypeSQLite:
		dbPath := dataSource.Path
		if dbPath == "" {
			return dbConfig{}, fmt.Errorf("sqlite data source requires a path")
		}
		if !isSpecialSQLitePath(dbPath) && !path.IsAbs(dbPath) && home != "" {
			dbPath = path.Join(home, dbPath)
		}
		options := dataSource.Options
		if options != "" && options[0] != '?' {
			options = "?" + options
		}
		return dbConfig{
			driverName: model.DataSourceTypeSQLite,
			dsn:        dbPath + options,
		}, nil
	default:
		return dbConfig{}, fmt.Errorf("unsupported database type: %s", dataSource.Type)
	}
}

// isSpecialSQLitePath reports whether the path must be handed to the driver unchanged.
func isSpecialSQLitePath(p string) bool {
	return p == ":memory:" || strings.HasPrefix(p, "file:")
}
