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

package model

import (
	"testing"

	"github.com/sqlagent/jobsync/internal/system/error/syncerror"

	"github.com/stretchr/testify/assert"
)

func TestNewStepDefaults(t *testing.T) {
	step := NewStep(StepFields{Name: "load"})

	assert.Equal(t, DefaultSubsystem, step.Fields.Subsystem)
	assert.Equal(t, 0, step.Position())
	assert.False(t, step.Committed())
	assert.Empty(t, step.Identity())

	step.Commit("id-1")
	assert.True(t, step.Committed())
	assert.Equal(t, "id-1", step.Identity())

	step.Uncommit()
	assert.False(t, step.Committed())
	assert.Empty(t, step.Identity())
}

func TestStepFieldsValidate(t *testing.T) {
	assert.NoError(t, StepFields{Name: "a"}.Validate())

	err := StepFields{}.Validate()
	assert.True(t, syncerror.IsValidation(err))

	err = StepFields{Name: "a", RetryAttempts: -1}.Validate()
	assert.ErrorContains(t, err, FieldRetryAttempts)

	err = StepFields{Name: "a", RetryInterval: -2}.Validate()
	assert.ErrorContains(t, err, FieldRetryInterval)
}

func TestDiffFields(t *testing.T) {
	base := StepFields{Name: "a", Subsystem: "TSQL", Command: "x", RetryAttempts: 1}

	assert.Empty(t, DiffFields(base, base))

	changed := base
	changed.Command = "y"
	assert.Equal(t, []string{FieldCommand}, DiffFields(base, changed))

	changed.Flags = 4
	changed.Name = "b"
	assert.Equal(t, []string{FieldName, FieldCommand, FieldFlags}, DiffFields(base, changed))
}

func TestDiffStepIncludesPolicies(t *testing.T) {
	remote := RemoteStep{Fields: StepFields{Name: "a"}, OnSuccess: ContinueNext(), OnFailure: QuitFailure()}
	desired := remote
	assert.Empty(t, DiffStep(remote, desired))

	desired.OnFailure = GoTo(1)
	assert.Equal(t, []string{FieldOnFailure}, DiffStep(remote, desired))

	update := StepUpdate{Changed: DiffStep(remote, desired)}
	assert.True(t, update.Has(FieldOnFailure))
	assert.False(t, update.Has(FieldOnSuccess))
}
