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

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/sqlagent/jobsync/internal/jobstep/model"
	"github.com/sqlagent/jobsync/internal/system/database/client"
	dbmodel "github.com/sqlagent/jobsync/internal/system/database/model"
	"github.com/sqlagent/jobsync/tests/mocks/databasemock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
)

type StepStoreSQLMockTestSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	store StepStoreInterface
}

func TestStepStoreSQLMockSuite(t *testing.T) {
	suite.Run(t, new(StepStoreSQLMockTestSuite))
}

func (suite *StepStoreSQLMockTestSuite) SetupTest() {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	suite.Require().NoError(err)
	suite.mock = mock

	dbClient := client.NewDBClient(dbmodel.NewDB(db), dbmodel.DataSourceTypePostgres)
	suite.store = NewStepStore(&databasemock.MockDBProvider{Client: dbClient})
}

func (suite *StepStoreSQLMockTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *StepStoreSQLMockTestSuite) TestAlterStepBuildsPartialUpdate() {
	suite.mock.ExpectExec(
		"UPDATE AGENT_JOB_STEP SET COMMAND = $1, ON_FAIL_ACTION = $2, ON_FAIL_STEP_ID = $3 WHERE STEP_UID = $4").
		WithArgs("y", 4, 1, "uid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := suite.store.AlterStep(context.Background(), "uid-1", model.StepUpdate{
		Changed:   []string{model.FieldCommand, model.FieldOnFailure},
		Fields:    model.StepFields{Name: "a", Command: "y"},
		OnFailure: model.GoTo(1),
	})

	suite.NoError(err)
}

func (suite *StepStoreSQLMockTestSuite) TestCreateStepRollsBackOnInsertFailure() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(QueryCountSteps.Query).WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(1))
	suite.mock.ExpectExec(QueryShiftStepsUp.Query).WithArgs(testJobID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(QueryInsertStep.Query).WillReturnError(errors.New("disk full"))
	suite.mock.ExpectRollback()

	identity, err := suite.store.CreateStep(context.Background(), testJobID, model.RemoteStep{
		Position: 1, Fields: model.StepFields{Name: "a"}, OnSuccess: model.QuitSuccess(), OnFailure: model.QuitFailure(),
	})

	suite.Empty(identity)
	suite.ErrorContains(err, "disk full")
}

func (suite *StepStoreSQLMockTestSuite) TestCreateStepReportsRollbackFailure() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(QueryCountSteps.Query).WithArgs(testJobID).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))

	_, err := suite.store.CreateStep(context.Background(), testJobID, model.RemoteStep{Position: 1})

	suite.ErrorContains(err, "connection reset")
	suite.ErrorContains(err, "rollback failed")
}

func (suite *StepStoreSQLMockTestSuite) TestDeleteStepShiftsFromDeletedPosition() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(QueryGetStepLocation.Query).WithArgs("uid-2").
		WillReturnRows(sqlmock.NewRows([]string{"JOB_ID", "STEP_ID"}).AddRow(testJobID, 2))
	suite.mock.ExpectExec(QueryDeleteStep.Query).WithArgs("uid-2").WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(QueryShiftStepsDown.Query).WithArgs(testJobID, 2).WillReturnResult(sqlmock.NewResult(0, 3))
	suite.mock.ExpectCommit()

	suite.NoError(suite.store.DeleteStep(context.Background(), "uid-2"))
}

func (suite *StepStoreSQLMockTestSuite) TestListCommittedStepsRejectsUnknownAction() {
	suite.mock.ExpectQuery(QueryGetJobByID.Query).WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"JOB_ID", "NAME", "DESCRIPTION", "START_STEP_ID"}).
			AddRow(testJobID, "nightly", "", 1))
	suite.mock.ExpectQuery(QueryListSteps.Query).WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"STEP_UID", "JOB_ID", "STEP_ID", "STEP_NAME", "SUBSYSTEM",
			"COMMAND", "DATABASE_NAME", "DATABASE_USER_NAME", "RETRY_ATTEMPTS", "RETRY_INTERVAL",
			"OUTPUT_FILE_NAME", "PROXY_NAME", "FLAGS", "ON_SUCCESS_ACTION", "ON_SUCCESS_STEP_ID",
			"ON_FAIL_ACTION", "ON_FAIL_STEP_ID"}).
			AddRow("uid-1", testJobID, 1, "a", "TSQL", "", "", "", 0, 0, "", "", 0, 9, 0, 2, 0))

	_, err := suite.store.ListCommittedSteps(context.Background(), testJobID)

	suite.ErrorContains(err, "unknown policy action code 9")
}

func (suite *StepStoreSQLMockTestSuite) TestProviderFailure() {
	failing := &databasemock.MockDBProvider{
		MockGetDBClient: func(context.Context) (client.DBClientInterface, error) {
			return nil, errors.New("no database")
		},
	}
	store := NewStepStore(failing)

	_, err := store.GetStartStep(context.Background(), testJobID)
	suite.ErrorContains(err, "no database")
	suite.ErrorContains(store.DeleteStep(context.Background(), "uid-1"), "no database")
}
