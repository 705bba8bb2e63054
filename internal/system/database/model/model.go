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

// Package model defines the data structures and interfaces for database operations.
package model

import (
	"context"
	"database/sql"
	"strings"
)

// DBInterface defines the wrapper interface for database operations.
type DBInterface interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

// DB is the implementation of DBInterface for managing database connections.
type DB struct {
	internal *sql.DB
}

// NewDB creates a new instance of DB with the provided sql.DB.
func NewDB(db *sql.DB) DBInterface {
	return &DB{
		internal: db,
	}
}

// QueryContext executes a query that returns rows.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.internal.QueryContext(ctx, query, args...)
}

// ExecContext executes a query without returning rows.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.internal.ExecContext(ctx, query, args...)
}

// BeginTx starts a new database transaction.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return d.internal.BeginTx(ctx, opts)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.internal.Close()
}

// TxInterface defines the wrapper interface for transaction management.
type TxInterface interface {
	// Commit commits the transaction.
	Commit() error
	// Rollback rolls back the transaction.
	Rollback() error
	// Query executes a query that returns rows inside the transaction.
	Query(ctx context.Context, query DBQuery, args ...any) ([]map[string]interface{}, error)
	// Execute executes a query inside the transaction and returns the number of rows affected.
	Execute(ctx context.Context, query DBQuery, args ...any) (int64, error)
}

// Tx is the implementation of TxInterface for managing database transactions.
type Tx struct {
	internal *sql.Tx
	dbType   string
}

// NewTx creates a new instance of Tx with the provided sql.Tx.
func NewTx(tx *sql.Tx, dbType string) TxInterface {
	return &Tx{
		internal: tx,
		dbType:   dbType,
	}
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.internal.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.internal.Rollback()
}

// Query executes a query that returns rows inside the transaction.
func (t *Tx) Query(ctx context.Context, query DBQuery, args ...any) ([]map[string]interface{}, error) {
	rows, err := t.internal.QueryContext(ctx, query.GetQuery(t.dbType), args...)
	if err != nil {
		return nil, err
	}
	return ScanRows(rows)
}

// Execute executes a query inside the transaction and returns the number of rows affected.
func (t *Tx) Execute(ctx context.Context, query DBQuery, args ...any) (int64, error) {
	res, err := t.internal.ExecContext(ctx, query.GetQuery(t.dbType), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ScanRows reads every row into a map keyed by lower case column name and closes rows.
func ScanRows(rows *sql.Rows) (results []map[string]interface{}, err error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			// Normalize column names to lowercase for consistency.
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
