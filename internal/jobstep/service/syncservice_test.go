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

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sqlagent/jobsync/internal/jobstep/model"
	"github.com/sqlagent/jobsync/internal/system/error/syncerror"
	"github.com/sqlagent/jobsync/tests/mocks/jobstepmock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJobID = "job-1"

type StepSyncServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *jobstepmock.MockStepStore
	service StepSyncServiceInterface
}

func TestStepSyncServiceSuite(t *testing.T) {
	suite.Run(t, new(StepSyncServiceTestSuite))
}

func (suite *StepSyncServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = &jobstepmock.MockStepStore{}
	suite.service = NewStepSyncService(suite.store)
}

func (suite *StepSyncServiceTestSuite) TearDownTest() {
	suite.store.AssertExpectations(suite.T())
}

func fields(name, command string) model.StepFields {
	return model.StepFields{Name: name, Subsystem: model.DefaultSubsystem, Command: command}
}

func remoteStep(identity string, position int, f model.StepFields, onSuccess model.Policy) model.RemoteStep {
	return model.RemoteStep{
		Identity:  identity,
		Position:  position,
		Fields:    f,
		OnSuccess: onSuccess,
		OnFailure: model.QuitFailure(),
	}
}

func (suite *StepSyncServiceTestSuite) snapshot(start int, remote ...model.RemoteStep) *model.StepGraph {
	graph, err := model.NewGraphFromSnapshot(remote, start)
	suite.Require().NoError(err)
	return graph
}

func (suite *StepSyncServiceTestSuite) TestRebuildOnReorder() {
	a := remoteStep("id-1", 1, fields("a", "x"), model.ContinueNext())
	b := remoteStep("id-2", 2, fields("b", "y"), model.QuitSuccess())
	graph := suite.snapshot(1, a, b)
	suite.Require().NoError(graph.MoveStep(0, 1))

	mock.InOrder(
		suite.store.On("DeleteStep", mock.Anything, "id-2").Return(nil).Once(),
		suite.store.On("DeleteStep", mock.Anything, "id-1").Return(nil).Once(),
		suite.store.On("CreateStep", mock.Anything, testJobID, model.RemoteStep{
			Position: 1, Fields: b.Fields, OnSuccess: model.QuitSuccess(), OnFailure: model.QuitFailure(),
		}).Return("id-3", nil).Once(),
		suite.store.On("CreateStep", mock.Anything, testJobID, model.RemoteStep{
			Position: 2, Fields: a.Fields, OnSuccess: model.QuitSuccess(), OnFailure: model.QuitFailure(),
		}).Return("id-4", nil).Once(),
		suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once(),
		suite.store.On("SetStartStep", mock.Anything, testJobID, 2).Return(nil).Once(),
	)

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.NoError(err)
	suite.True(report.Rebuilt)
	suite.Equal(2, report.Count(OperationDelete))
	suite.Equal(2, report.Count(OperationCreate))
	suite.Equal(1, report.Count(OperationSetStartStep))
	steps := graph.Steps()
	suite.Equal("id-3", steps[0].Identity())
	suite.Equal("id-4", steps[1].Identity())
	suite.False(graph.RebuildRequired())
	suite.store.AssertNotCalled(suite.T(), "GetStep", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StepSyncServiceTestSuite) TestMinimalAlter() {
	remote := remoteStep("id-1", 1, fields("a", "x"), model.QuitSuccess())
	graph := suite.snapshot(1, remote)
	step, _ := graph.StepAt(1)
	step.Fields.Command = "y"

	suite.store.On("GetStep", mock.Anything, testJobID, "id-1").Return(remote, nil).Once()
	suite.store.On("AlterStep", mock.Anything, "id-1", model.StepUpdate{
		Changed:   []string{model.FieldCommand},
		Fields:    fields("a", "y"),
		OnSuccess: model.QuitSuccess(),
		OnFailure: model.QuitFailure(),
	}).Return(nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.NoError(err)
	suite.Equal([]Operation{{Kind: OperationAlter, StepName: "a", Position: 1, Identity: "id-1",
		Changed: []string{model.FieldCommand}}}, report.Operations)
	suite.store.AssertNotCalled(suite.T(), "CreateStep", mock.Anything, mock.Anything, mock.Anything)
	suite.store.AssertNotCalled(suite.T(), "DeleteStep", mock.Anything, mock.Anything)
}

func (suite *StepSyncServiceTestSuite) TestUnchangedGraphIssuesNoMutation() {
	a := remoteStep("id-1", 1, fields("a", "x"), model.ContinueNext())
	b := remoteStep("id-2", 2, fields("b", "y"), model.QuitSuccess())
	graph := suite.snapshot(1, a, b)

	suite.store.On("GetStep", mock.Anything, testJobID, "id-1").Return(a, nil).Once()
	suite.store.On("GetStep", mock.Anything, testJobID, "id-2").Return(b, nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.NoError(err)
	suite.Empty(report.Operations)
}

func (suite *StepSyncServiceTestSuite) TestNewJobCreatesStepsAndStartStep() {
	graph := model.NewStepGraph()
	first := model.NewStep(fields("a", "x"))
	second := model.NewStep(fields("b", "y"))
	suite.Require().NoError(graph.AddStep(first))
	suite.Require().NoError(graph.AddStep(second))
	suite.Require().True(graph.WillLastStepPolicyChange())

	suite.store.On("CreateStep", mock.Anything, testJobID, model.RemoteStep{
		Position: 1, Fields: first.Fields, OnSuccess: model.ContinueNext(), OnFailure: model.QuitFailure(),
	}).Return("id-1", nil).Once()
	suite.store.On("CreateStep", mock.Anything, testJobID, model.RemoteStep{
		Position: 2, Fields: second.Fields, OnSuccess: model.QuitSuccess(), OnFailure: model.QuitFailure(),
	}).Return("id-2", nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(0, nil).Once()
	suite.store.On("SetStartStep", mock.Anything, testJobID, 1).Return(nil).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.NoError(err)
	suite.Equal(2, report.Count(OperationCreate))
	suite.True(first.Committed())
	suite.Equal("id-2", second.Identity())
	suite.Equal(model.QuitSuccess(), graph.OnSuccess(second))
	suite.False(graph.WillLastStepPolicyChange())
}

func (suite *StepSyncServiceTestSuite) TestPendingDeleteIsPurged() {
	a := remoteStep("id-1", 1, fields("a", "x"), model.ContinueNext())
	b := remoteStep("id-2", 2, fields("b", "y"), model.QuitSuccess())
	graph := suite.snapshot(1, a, b)
	first, _ := graph.StepAt(1)
	suite.Require().NoError(graph.DeleteStep(first))

	shifted := b
	shifted.Position = 1
	mock.InOrder(
		suite.store.On("DeleteStep", mock.Anything, "id-1").Return(nil).Once(),
		suite.store.On("GetStep", mock.Anything, testJobID, "id-2").Return(shifted, nil).Once(),
		suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once(),
	)

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.NoError(err)
	suite.Equal([]Operation{{Kind: OperationDelete, StepName: "a", Identity: "id-1",
		Reason: ReasonPendingDelete}}, report.Operations)
	suite.Empty(graph.DeletedSteps())
}

func (suite *StepSyncServiceTestSuite) TestPositionMismatchRecreatesStep() {
	remote := remoteStep("id-1", 1, fields("a", "x"), model.QuitSuccess())
	graph := suite.snapshot(1, remote)

	moved := remote
	moved.Position = 3
	suite.store.On("GetStep", mock.Anything, testJobID, "id-1").Return(moved, nil).Once()
	suite.store.On("DeleteStep", mock.Anything, "id-1").Return(nil).Once()
	suite.store.On("CreateStep", mock.Anything, testJobID, model.RemoteStep{
		Position: 1, Fields: remote.Fields, OnSuccess: model.QuitSuccess(), OnFailure: model.QuitFailure(),
	}).Return("id-9", nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.NoError(err)
	suite.Equal(1, report.Count(OperationDelete))
	suite.Equal(1, report.Count(OperationCreate))
	step, _ := graph.StepAt(1)
	suite.Equal("id-9", step.Identity())
}

func (suite *StepSyncServiceTestSuite) TestFailedRecreateLeavesStepUncommitted() {
	remote := remoteStep("id-1", 1, fields("a", "x"), model.QuitSuccess())
	graph := suite.snapshot(1, remote)
	step, _ := graph.StepAt(1)
	desired := model.RemoteStep{
		Position: 1, Fields: remote.Fields, OnSuccess: model.QuitSuccess(), OnFailure: model.QuitFailure(),
	}

	moved := remote
	moved.Position = 3
	suite.store.On("GetStep", mock.Anything, testJobID, "id-1").Return(moved, nil).Once()
	suite.store.On("DeleteStep", mock.Anything, "id-1").Return(nil).Once()
	suite.store.On("CreateStep", mock.Anything, testJobID, desired).
		Return("", errors.New("connection reset")).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.True(syncerror.IsTransport(err))
	suite.Equal(1, report.Count(OperationDelete))
	suite.Equal(0, report.Count(OperationCreate))
	suite.False(step.Committed())
	suite.Empty(step.Identity())

	suite.store.On("CreateStep", mock.Anything, testJobID, desired).Return("id-9", nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once()

	report, err = suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.NoError(err)
	suite.Equal([]Operation{{Kind: OperationCreate, StepName: "a", Position: 1, Identity: "id-9"}},
		report.Operations)
	suite.True(step.Committed())
	suite.Equal("id-9", step.Identity())
	suite.store.AssertNumberOfCalls(suite.T(), "GetStep", 1)
}

func (suite *StepSyncServiceTestSuite) TestMissingRemoteStepIsConflict() {
	a := remoteStep("id-1", 1, fields("a", "x"), model.ContinueNext())
	b := remoteStep("id-2", 2, fields("b", "y"), model.QuitSuccess())
	graph := suite.snapshot(1, a, b)
	third := model.NewStep(fields("c", "z"))
	suite.Require().NoError(graph.AddStep(third))

	suite.store.On("GetStep", mock.Anything, testJobID, "id-1").
		Return(model.RemoteStep{}, model.ErrStepNotFound).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.True(syncerror.IsConflict(err))
	suite.ErrorIs(err, model.ErrStepNotFound)
	suite.Empty(report.Operations)
	suite.False(third.Committed())
	suite.store.AssertNotCalled(suite.T(), "GetStartStep", mock.Anything, mock.Anything)
}

func (suite *StepSyncServiceTestSuite) TestTransportFailureStopsRun() {
	graph := model.NewStepGraph()
	first := model.NewStep(fields("a", "x"))
	second := model.NewStep(fields("b", "y"))
	suite.Require().NoError(graph.AddStep(first))
	suite.Require().NoError(graph.AddStep(second))
	storeErr := errors.New("connection reset")

	suite.store.On("CreateStep", mock.Anything, testJobID, mock.MatchedBy(func(step model.RemoteStep) bool {
		return step.Position == 1
	})).Return("id-1", nil).Once()
	suite.store.On("CreateStep", mock.Anything, testJobID, mock.MatchedBy(func(step model.RemoteStep) bool {
		return step.Position == 2
	})).Return("", storeErr).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})

	suite.True(syncerror.IsTransport(err))
	suite.ErrorIs(err, storeErr)
	suite.Len(report.Operations, 1)
	suite.True(first.Committed())
	suite.False(second.Committed())
	suite.True(graph.WillLastStepPolicyChange())
}

func (suite *StepSyncServiceTestSuite) TestCancelledContextStopsBeforeFirstOperation() {
	graph := model.NewStepGraph()
	suite.Require().NoError(graph.AddStep(model.NewStep(fields("a", "x"))))
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	_, err := suite.service.Synchronize(ctx, testJobID, graph, SyncOptions{})

	suite.ErrorIs(err, context.Canceled)
	suite.store.AssertNotCalled(suite.T(), "CreateStep", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StepSyncServiceTestSuite) TestSimulateIssuesNoMutation() {
	a := remoteStep("id-1", 1, fields("a", "x"), model.ContinueNext())
	b := remoteStep("id-2", 2, fields("b", "y"), model.ContinueNext())
	graph := suite.snapshot(1, a, b)
	first, _ := graph.StepAt(1)
	second, _ := graph.StepAt(2)
	suite.Require().NoError(graph.DeleteStep(first))
	second.Fields.Command = "yy"
	third := model.NewStep(fields("c", "z"))
	suite.Require().NoError(graph.AddStep(third))

	suite.store.On("ListCommittedSteps", mock.Anything, testJobID).Return([]model.RemoteStep{b, a}, nil).Once()
	suite.store.On("GetStep", mock.Anything, testJobID, "id-2").Return(b, nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{SimulateOnly: true})

	suite.NoError(err)
	suite.True(report.Simulated)
	suite.Equal([]Operation{
		{Kind: OperationDelete, StepName: "a", Identity: "id-1", Reason: ReasonPendingDelete},
		{Kind: OperationAlter, StepName: "b", Position: 1, Identity: "id-2", Changed: []string{model.FieldCommand}},
		{Kind: OperationCreate, StepName: "c", Position: 2},
	}, report.Operations)
	suite.Len(graph.DeletedSteps(), 1)
	suite.False(third.Committed())
	suite.Equal("yy", second.Fields.Command)
	suite.True(graph.WillLastStepPolicyChange())
	suite.store.AssertNotCalled(suite.T(), "DeleteStep", mock.Anything, mock.Anything)
	suite.store.AssertNotCalled(suite.T(), "CreateStep", mock.Anything, mock.Anything, mock.Anything)
	suite.store.AssertNotCalled(suite.T(), "AlterStep", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StepSyncServiceTestSuite) TestSimulateRebuildPlansEveryStep() {
	a := remoteStep("id-1", 1, fields("a", "x"), model.ContinueNext())
	b := remoteStep("id-2", 2, fields("b", "y"), model.QuitSuccess())
	graph := suite.snapshot(1, a, b)
	suite.Require().NoError(graph.MoveStep(1, 0))

	suite.store.On("ListCommittedSteps", mock.Anything, testJobID).Return([]model.RemoteStep{a, b}, nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(1, nil).Once()

	report, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{SimulateOnly: true})

	suite.NoError(err)
	suite.True(report.Rebuilt)
	suite.Equal(2, report.Count(OperationDelete))
	suite.Equal(2, report.Count(OperationCreate))
	suite.Equal(1, report.Count(OperationSetStartStep))
	suite.True(graph.RebuildRequired())
	for _, step := range graph.Steps() {
		suite.True(step.Committed())
	}
}

func (suite *StepSyncServiceTestSuite) TestInvalidStepIsRejectedBeforeAnyCall() {
	graph := model.NewStepGraph()
	suite.Require().NoError(graph.AddStep(model.NewStep(model.StepFields{})))

	_, err := suite.service.Synchronize(suite.ctx, testJobID, graph, SyncOptions{})
	suite.True(syncerror.IsValidation(err))

	_, err = suite.service.Synchronize(suite.ctx, testJobID, nil, SyncOptions{})
	suite.True(syncerror.IsValidation(err))
}

func (suite *StepSyncServiceTestSuite) TestLoadGraph() {
	a := remoteStep("id-1", 1, fields("a", "x"), model.GoTo(2))
	b := remoteStep("id-2", 2, fields("b", "y"), model.QuitSuccess())
	suite.store.On("ListCommittedSteps", mock.Anything, testJobID).Return([]model.RemoteStep{a, b}, nil).Once()
	suite.store.On("GetStartStep", mock.Anything, testJobID).Return(2, nil).Once()

	graph, err := suite.service.LoadGraph(suite.ctx, testJobID)

	suite.NoError(err)
	suite.Equal(2, graph.Len())
	suite.Equal(2, graph.StartPosition())
	first, _ := graph.StepAt(1)
	suite.Equal(model.GoTo(2), graph.OnSuccess(first))
}

func (suite *StepSyncServiceTestSuite) TestLoadGraphErrors() {
	suite.store.On("ListCommittedSteps", mock.Anything, "missing").Return(nil, model.ErrJobNotFound).Once()
	_, err := suite.service.LoadGraph(suite.ctx, "missing")
	suite.ErrorIs(err, model.ErrJobNotFound)
	suite.False(syncerror.IsTransport(err))

	suite.store.On("ListCommittedSteps", mock.Anything, "broken").Return(nil, errors.New("timeout")).Once()
	_, err = suite.service.LoadGraph(suite.ctx, "broken")
	suite.True(syncerror.IsTransport(err))

	gap := []model.RemoteStep{remoteStep("id-1", 2, fields("a", "x"), model.QuitSuccess())}
	suite.store.On("ListCommittedSteps", mock.Anything, "gap").Return(gap, nil).Once()
	suite.store.On("GetStartStep", mock.Anything, "gap").Return(1, nil).Once()
	_, err = suite.service.LoadGraph(suite.ctx, "gap")
	suite.True(syncerror.IsConflict(err))
}

func (suite *StepSyncServiceTestSuite) TestAnalyze() {
	graph := model.NewStepGraph()
	first := model.NewStep(fields("a", "x"))
	suite.Require().NoError(graph.AddStep(first))
	suite.Require().NoError(graph.AddStep(model.NewStep(fields("b", "y"))))
	suite.Require().NoError(graph.SetOnSuccess(first, model.QuitSuccess()))

	analysis := suite.service.Analyze(graph)

	suite.Equal([]int{2}, analysis.Unreachable)
	suite.True(analysis.LastStepPolicyChange)
	suite.True(analysis.HasWarnings())
}
