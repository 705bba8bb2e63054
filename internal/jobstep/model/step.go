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

// Package model defines the job step graph: steps, their completion policies, and the
// ordered collection that keeps positions and cross-step references consistent.
package model

import (
	"github.com/sqlagent/jobsync/internal/system/error/syncerror"
)

// Names of the step attributes compared during synchronization.
const (
	FieldName             = "name"
	FieldSubsystem        = "subsystem"
	FieldCommand          = "command"
	FieldDatabaseName     = "database_name"
	FieldDatabaseUserName = "database_user_name"
	FieldRetryAttempts    = "retry_attempts"
	FieldRetryInterval    = "retry_interval"
	FieldOutputFileName   = "output_file_name"
	FieldProxyName        = "proxy_name"
	FieldFlags            = "flags"
	FieldOnSuccess        = "on_success"
	FieldOnFailure        = "on_failure"
)

// DefaultSubsystem is the subsystem of steps that do not name one.
const DefaultSubsystem = "TSQL"

// StepFields is the payload of a step.
type StepFields struct {
	Name             string
	Subsystem        string
	Command          string
	DatabaseName     string
	DatabaseUserName string
	RetryAttempts    int
	RetryInterval    int
	OutputFileName   string
	ProxyName        string
	Flags            int
}

// Validate checks the fields that the store cannot accept.
func (f StepFields) Validate() error {
	if f.Name == "" {
		return syncerror.NewValidationError(FieldName, "step name is required")
	}
	if f.RetryAttempts < 0 {
		return syncerror.NewValidationError(FieldRetryAttempts, "must not be negative, got %d", f.RetryAttempts)
	}
	if f.RetryInterval < 0 {
		return syncerror.NewValidationError(FieldRetryInterval, "must not be negative, got %d", f.RetryInterval)
	}
	return nil
}

// DiffFields returns the names of the fields that differ between two payloads, in a fixed order.
func DiffFields(current, desired StepFields) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add(FieldName, current.Name != desired.Name)
	add(FieldSubsystem, current.Subsystem != desired.Subsystem)
	add(FieldCommand, current.Command != desired.Command)
	add(FieldDatabaseName, current.DatabaseName != desired.DatabaseName)
	add(FieldDatabaseUserName, current.DatabaseUserName != desired.DatabaseUserName)
	add(FieldRetryAttempts, current.RetryAttempts != desired.RetryAttempts)
	add(FieldRetryInterval, current.RetryInterval != desired.RetryInterval)
	add(FieldOutputFileName, current.OutputFileName != desired.OutputFileName)
	add(FieldProxyName, current.ProxyName != desired.ProxyName)
	add(FieldFlags, current.Flags != desired.Flags)
	return changed
}

// Step is a single node of a StepGraph.
type Step struct {
	// Fields holds the step payload. It can be edited in place.
	Fields StepFields

	key           int
	position      int
	identity      string
	committed     bool
	pendingDelete bool
	onSuccess     policyRef
	onFailure     policyRef
}

// NewStep creates a detached, uncommitted step that continues to the next step on success
// and quits reporting failure on failure.
func NewStep(fields StepFields) *Step {
	if fields.Subsystem == "" {
		fields.Subsystem = DefaultSubsystem
	}
	return &Step{
		Fields:    fields,
		onSuccess: policyRef{action: ActionContinueNext},
		onFailure: policyRef{action: ActionQuitFailure},
	}
}

// Position returns the 1-based position of the step, or 0 if it is not part of a graph.
func (s *Step) Position() int {
	return s.position
}

// Identity returns the remote identity of a committed step.
func (s *Step) Identity() string {
	return s.identity
}

// Committed reports whether the remote store holds this step.
func (s *Step) Committed() bool {
	return s.committed
}

// PendingDelete reports whether the step was deleted locally but not yet purged remotely.
func (s *Step) PendingDelete() bool {
	return s.pendingDelete
}

// Commit records the identity assigned by the remote store.
func (s *Step) Commit(identity string) {
	s.identity = identity
	s.committed = true
}

// Uncommit forgets the remote identity so that the next synchronization creates the step again.
func (s *Step) Uncommit() {
	s.identity = ""
	s.committed = false
}

func (s *Step) policy(outcome Outcome) policyRef {
	if outcome == OutcomeFailure {
		return s.onFailure
	}
	return s.onSuccess
}

func (s *Step) setPolicy(outcome Outcome, ref policyRef) {
	if outcome == OutcomeFailure {
		s.onFailure = ref
	} else {
		s.onSuccess = ref
	}
}
