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

package cli

import (
	"errors"
	"testing"

	"github.com/sqlagent/jobsync/internal/jobstep/constants"
	"github.com/sqlagent/jobsync/internal/system/error/serviceerror"
	"github.com/sqlagent/jobsync/tests/mocks/databasemock"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestRunEClosesProviderWhenCommandFails(t *testing.T) {
	dbProvider := &databasemock.MockDBProvider{}
	a := &app{provider: dbProvider}
	failure := &commandError{svcErr: serviceerror.CustomServiceError(constants.ErrorJobNotFound, "")}

	err := a.runE(func(cmd *cobra.Command, args []string) error {
		return failure
	})(&cobra.Command{}, nil)

	var cmdErr *commandError
	assert.True(t, errors.As(err, &cmdErr))
	assert.Same(t, failure, cmdErr)
	assert.Equal(t, 1, dbProvider.CloseCalls)
	assert.Nil(t, a.provider)
}

func TestRunEClosesProviderOnSuccess(t *testing.T) {
	dbProvider := &databasemock.MockDBProvider{}
	a := &app{provider: dbProvider}

	err := a.runE(func(cmd *cobra.Command, args []string) error {
		return nil
	})(&cobra.Command{}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, dbProvider.CloseCalls)
}

func TestRunEReportsCloseFailure(t *testing.T) {
	dbProvider := &databasemock.MockDBProvider{MockClose: func() error { return errors.New("close failed") }}
	a := &app{provider: dbProvider}

	err := a.runE(func(cmd *cobra.Command, args []string) error {
		return nil
	})(&cobra.Command{}, nil)

	assert.EqualError(t, err, "close failed")
}
