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

// Package store provides the SQL implementation of the remote job step store.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sqlagent/jobsync/internal/jobstep/model"
	dbmodel "github.com/sqlagent/jobsync/internal/system/database/model"
	"github.com/sqlagent/jobsync/internal/system/database/provider"
	dbutils "github.com/sqlagent/jobsync/internal/system/database/utils"
	"github.com/sqlagent/jobsync/internal/system/log"
	"github.com/sqlagent/jobsync/internal/system/utils"
)

const loggerComponentName = "JobStepStore"

// StepStoreInterface is the remote store capability the step synchronization runs against.
//
// Step positions are kept dense by the store: creating a step at a position moves the steps
// at and after it one position down, deleting a step moves the following steps up. Policy
// targets and the start step are stored as positions and are never rewritten by the store.
type StepStoreInterface interface {
	ListCommittedSteps(ctx context.Context, jobID string) ([]model.RemoteStep, error)
	GetStep(ctx context.Context, jobID, identity string) (model.RemoteStep, error)
	CreateStep(ctx context.Context, jobID string, step model.RemoteStep) (string, error)
	AlterStep(ctx context.Context, identity string, update model.StepUpdate) error
	DeleteStep(ctx context.Context, identity string) error
	GetStartStep(ctx context.Context, jobID string) (int, error)
	SetStartStep(ctx context.Context, jobID string, position int) error
	CreateJob(ctx context.Context, job model.Job) error
	GetJobByName(ctx context.Context, name string) (model.Job, error)
}

type stepStore struct {
	dbProvider provider.DBProviderInterface
}

// NewStepStore creates a step store backed by the given database provider.
func NewStepStore(dbProvider provider.DBProviderInterface) StepStoreInterface {
	return &stepStore{dbProvider: dbProvider}
}

// CreateJob creates a job without steps.
func (s *stepStore) CreateJob(ctx context.Context, job model.Job) error {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(ctx, QueryCreateJob, job.ID, job.Name, job.Description, job.StartStep); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJobByName retrieves a job by its name.
func (s *stepStore) GetJobByName(ctx context.Context, name string) (model.Job, error) {
	return s.getJob(ctx, QueryGetJobByName, name)
}

// ListCommittedSteps lists the steps of a job in position order.
func (s *stepStore) ListCommittedSteps(ctx context.Context, jobID string) ([]model.RemoteStep, error) {
	if _, err := s.getJob(ctx, QueryGetJobByID, jobID); err != nil {
		return nil, err
	}

	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, QueryListSteps, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute step list query: %w", err)
	}

	steps := make([]model.RemoteStep, 0, len(results))
	for _, row := range results {
		step, err := buildStepFromResultRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to build step from result row: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// GetStep retrieves a step of a job by its identity.
func (s *stepStore) GetStep(ctx context.Context, jobID, identity string) (model.RemoteStep, error) {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return model.RemoteStep{}, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, QueryGetStep, jobID, identity)
	if err != nil {
		return model.RemoteStep{}, fmt.Errorf("failed to execute step query: %w", err)
	}
	if len(results) == 0 {
		return model.RemoteStep{}, model.ErrStepNotFound
	}
	if len(results) != 1 {
		return model.RemoteStep{}, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildStepFromResultRow(results[0])
}

// CreateStep inserts a step at its position and returns the identity assigned to it.
func (s *stepStore) CreateStep(ctx context.Context, jobID string, step model.RemoteStep) (string, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	identity := utils.GenerateUUID()
	err := s.withTx(ctx, func(tx dbmodel.TxInterface) error {
		countResults, err := tx.Query(ctx, QueryCountSteps, jobID)
		if err != nil {
			return fmt.Errorf("failed to count steps: %w", err)
		}
		total := 0
		if len(countResults) > 0 {
			if total, err = dbutils.GetInt(countResults[0], "total"); err != nil {
				return err
			}
		}
		if step.Position < 1 || step.Position > total+1 {
			return fmt.Errorf("position %d with %d existing steps: %w", step.Position, total,
				model.ErrInvalidStepPosition)
		}

		if _, err := tx.Execute(ctx, QueryShiftStepsUp, jobID, step.Position); err != nil {
			return fmt.Errorf("failed to shift steps: %w", err)
		}

		f := step.Fields
		_, err = tx.Execute(ctx, QueryInsertStep, identity, jobID, step.Position, f.Name, f.Subsystem,
			f.Command, f.DatabaseName, f.DatabaseUserName, f.RetryAttempts, f.RetryInterval,
			f.OutputFileName, f.ProxyName, f.Flags,
			int(step.OnSuccess.Action), step.OnSuccess.TargetCode(),
			int(step.OnFailure.Action), step.OnFailure.TargetCode())
		if err != nil {
			return fmt.Errorf("failed to insert step: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Debug("Created job step", log.String(log.LoggerKeyJobID, jobID),
		log.String(log.LoggerKeyStepID, identity), log.Int("position", step.Position))
	return identity, nil
}

// AlterStep writes the changed fields of a step.
func (s *stepStore) AlterStep(ctx context.Context, identity string, update model.StepUpdate) error {
	if len(update.Changed) == 0 {
		return nil
	}

	columns, args, err := buildUpdateColumns(update)
	if err != nil {
		return err
	}
	query, err := dbutils.BuildUpdateQuery(queryIDAlterStep, "AGENT_JOB_STEP", "STEP_UID", columns)
	if err != nil {
		return fmt.Errorf("failed to build step update: %w", err)
	}

	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(ctx, query, append(args, identity)...)
	if err != nil {
		return fmt.Errorf("failed to execute step update: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrStepNotFound
	}
	return nil
}

// DeleteStep deletes a step and closes the gap in the positions of its job.
func (s *stepStore) DeleteStep(ctx context.Context, identity string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	err := s.withTx(ctx, func(tx dbmodel.TxInterface) error {
		results, err := tx.Query(ctx, QueryGetStepLocation, identity)
		if err != nil {
			return fmt.Errorf("failed to locate step: %w", err)
		}
		if len(results) == 0 {
			return model.ErrStepNotFound
		}
		jobID, err := dbutils.GetString(results[0], "job_id")
		if err != nil {
			return err
		}
		position, err := dbutils.GetInt(results[0], "step_id")
		if err != nil {
			return err
		}

		if _, err := tx.Execute(ctx, QueryDeleteStep, identity); err != nil {
			return fmt.Errorf("failed to delete step: %w", err)
		}
		if _, err := tx.Execute(ctx, QueryShiftStepsDown, jobID, position); err != nil {
			return fmt.Errorf("failed to shift steps: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug("Deleted job step", log.String(log.LoggerKeyStepID, identity))
	return nil
}

// GetStartStep returns the position of the start step of a job.
func (s *stepStore) GetStartStep(ctx context.Context, jobID string) (int, error) {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, QueryGetStartStep, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to execute start step query: %w", err)
	}
	if len(results) == 0 {
		return 0, model.ErrJobNotFound
	}
	return dbutils.GetInt(results[0], "start_step_id")
}

// SetStartStep sets the position of the start step of a job.
func (s *stepStore) SetStartStep(ctx context.Context, jobID string, position int) error {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(ctx, QuerySetStartStep, position, jobID)
	if err != nil {
		return fmt.Errorf("failed to execute start step update: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrJobNotFound
	}
	return nil
}

func (s *stepStore) getJob(ctx context.Context, query dbmodel.DBQuery, arg string) (model.Job, error) {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, query, arg)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to execute job query: %w", err)
	}
	if len(results) == 0 {
		return model.Job{}, model.ErrJobNotFound
	}

	r := rowReader{row: results[0]}
	job := model.Job{
		ID:          r.getString("job_id"),
		Name:        r.getString("name"),
		Description: r.getString("description"),
		StartStep:   r.getInt("start_step_id"),
	}
	if r.err != nil {
		return model.Job{}, fmt.Errorf("failed to build job from result row: %w", r.err)
	}
	return job, nil
}

// withTx runs fn in a transaction, rolling back when it fails.
func (s *stepStore) withTx(ctx context.Context, fn func(tx dbmodel.TxInterface) error) error {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rollbackErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func buildStepFromResultRow(row map[string]interface{}) (model.RemoteStep, error) {
	r := rowReader{row: row}
	step := model.RemoteStep{
		Identity: r.getString("step_uid"),
		Position: r.getInt("step_id"),
		Fields: model.StepFields{
			Name:             r.getString("step_name"),
			Subsystem:        r.getString("subsystem"),
			Command:          r.getString("command"),
			DatabaseName:     r.getString("database_name"),
			DatabaseUserName: r.getString("database_user_name"),
			RetryAttempts:    r.getInt("retry_attempts"),
			RetryInterval:    r.getInt("retry_interval"),
			OutputFileName:   r.getString("output_file_name"),
			ProxyName:        r.getString("proxy_name"),
			Flags:            r.getInt("flags"),
		},
	}
	successAction, successTarget := r.getInt("on_success_action"), r.getInt("on_success_step_id")
	failAction, failTarget := r.getInt("on_fail_action"), r.getInt("on_fail_step_id")
	if r.err != nil {
		return model.RemoteStep{}, r.err
	}

	var err error
	if step.OnSuccess, err = model.PolicyFromCodes(successAction, successTarget); err != nil {
		return model.RemoteStep{}, fmt.Errorf("step %s success policy: %w", step.Identity, err)
	}
	if step.OnFailure, err = model.PolicyFromCodes(failAction, failTarget); err != nil {
		return model.RemoteStep{}, fmt.Errorf("step %s failure policy: %w", step.Identity, err)
	}
	return step, nil
}

// buildUpdateColumns maps the changed fields of an update onto columns and values.
func buildUpdateColumns(update model.StepUpdate) ([]string, []interface{}, error) {
	f := update.Fields
	var columns []string
	var args []interface{}
	set := func(column string, value interface{}) {
		columns = append(columns, column)
		args = append(args, value)
	}

	for _, field := range update.Changed {
		switch field {
		case model.FieldName:
			set("STEP_NAME", f.Name)
		case model.FieldSubsystem:
			set("SUBSYSTEM", f.Subsystem)
		case model.FieldCommand:
			set("COMMAND", f.Command)
		case model.FieldDatabaseName:
			set("DATABASE_NAME", f.DatabaseName)
		case model.FieldDatabaseUserName:
			set("DATABASE_USER_NAME", f.DatabaseUserName)
		case model.FieldRetryAttempts:
			set("RETRY_ATTEMPTS", f.RetryAttempts)
		case model.FieldRetryInterval:
			set("RETRY_INTERVAL", f.RetryInterval)
		case model.FieldOutputFileName:
			set("OUTPUT_FILE_NAME", f.OutputFileName)
		case model.FieldProxyName:
			set("PROXY_NAME", f.ProxyName)
		case model.FieldFlags:
			set("FLAGS", f.Flags)
		case model.FieldOnSuccess:
			set("ON_SUCCESS_ACTION", int(update.OnSuccess.Action))
			set("ON_SUCCESS_STEP_ID", update.OnSuccess.TargetCode())
		case model.FieldOnFailure:
			set("ON_FAIL_ACTION", int(update.OnFailure.Action))
			set("ON_FAIL_STEP_ID", update.OnFailure.TargetCode())
		default:
			return nil, nil, fmt.Errorf("unknown step field %q", field)
		}
	}
	return columns, args, nil
}

// rowReader reads typed columns from a result row and keeps the first error.
type rowReader struct {
	row map[string]interface{}
	err error
}

func (r *rowReader) getString(column string) string {
	if r.err != nil {
		return ""
	}
	v, err := dbutils.GetString(r.row, column)
	r.err = err
	return v
}

func (r *rowReader) getInt(column string) int {
	if r.err != nil {
		return 0
	}
	v, err := dbutils.GetInt(r.row, column)
	r.err = err
	return v
}
