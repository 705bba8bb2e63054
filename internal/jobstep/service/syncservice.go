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

// Package service synchronizes job step graphs with the remote job store.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sqlagent/jobsync/internal/jobstep/model"
	"github.com/sqlagent/jobsync/internal/jobstep/store"
	"github.com/sqlagent/jobsync/internal/system/error/syncerror"
	"github.com/sqlagent/jobsync/internal/system/log"
)

const loggerComponentName = "StepSyncService"

// SyncOptions controls a synchronization run.
type SyncOptions struct {
	// SimulateOnly plans the operations without issuing any remote mutation.
	SimulateOnly bool
}

// StepSyncServiceInterface defines the interface for the step synchronization service.
type StepSyncServiceInterface interface {
	LoadGraph(ctx context.Context, jobID string) (*model.StepGraph, error)
	Analyze(graph *model.StepGraph) Analysis
	Synchronize(ctx context.Context, jobID string, graph *model.StepGraph, opts SyncOptions) (*SyncReport, error)
}

// StepSyncService is the default implementation of the StepSyncServiceInterface.
type StepSyncService struct {
	store store.StepStoreInterface
}

// NewStepSyncService creates a new instance of StepSyncService.
func NewStepSyncService(stepStore store.StepStoreInterface) StepSyncServiceInterface {
	return &StepSyncService{store: stepStore}
}

// LoadGraph builds the graph of a job from the steps committed in the store.
func (s *StepSyncService) LoadGraph(ctx context.Context, jobID string) (*model.StepGraph, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyJobID, jobID))

	remote, err := s.store.ListCommittedSteps(ctx, jobID)
	if err != nil {
		if errors.Is(err, model.ErrJobNotFound) {
			return nil, fmt.Errorf("job %s: %w", jobID, err)
		}
		return nil, &syncerror.TransportError{Op: "list committed steps", Err: err}
	}
	start, err := s.store.GetStartStep(ctx, jobID)
	if err != nil {
		return nil, &syncerror.TransportError{Op: "get start step", Err: err}
	}

	graph, err := model.NewGraphFromSnapshot(remote, start)
	if err != nil {
		return nil, &syncerror.ConflictError{Identity: jobID, Reason: "remote steps are inconsistent", Err: err}
	}

	logger.Debug("Loaded step graph", log.Int("steps", graph.Len()), log.Int("startStep", start))
	return graph, nil
}

// Analyze runs the pre-flight checks of a graph.
func (s *StepSyncService) Analyze(graph *model.StepGraph) Analysis {
	analysis := Analysis{LastStepPolicyChange: graph.WillLastStepPolicyChange()}
	for _, step := range graph.FindUnreachable() {
		analysis.Unreachable = append(analysis.Unreachable, step.Position())
	}
	return analysis
}

// Synchronize applies the local state of the graph to the store.
//
// Operations are issued one at a time. The first failure stops the run; operations issued
// before it are not rolled back, and the graph records every step that was committed so far.
// A successful run that is not simulated writes the saved policies back to the graph and
// clears its pending deletes and reorder flag.
func (s *StepSyncService) Synchronize(ctx context.Context, jobID string, graph *model.StepGraph,
	opts SyncOptions) (*SyncReport, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyJobID, jobID))

	if graph == nil {
		return nil, syncerror.NewValidationError("graph", "graph is required")
	}
	for _, step := range graph.Steps() {
		if err := step.Fields.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", step.Position(), err)
		}
	}

	run := &syncRun{
		ctx:    ctx,
		store:  s.store,
		jobID:  jobID,
		graph:  graph,
		report: &SyncReport{JobID: jobID, Simulated: opts.SimulateOnly},
		logger: logger,
	}
	if opts.SimulateOnly {
		if err := run.loadRemoteOrder(); err != nil {
			return nil, err
		}
	}

	if err := run.execute(); err != nil {
		logger.Error("Step synchronization failed", log.Int("issued", len(run.report.Operations)), log.Error(err))
		return run.report, err
	}

	if !opts.SimulateOnly {
		graph.ApplySavedPolicies()
		graph.MarkSynchronized()
	}
	logger.Info("Step synchronization completed", log.Bool("simulated", opts.SimulateOnly),
		log.Bool("rebuilt", run.report.Rebuilt), log.Int("operations", len(run.report.Operations)))
	return run.report, nil
}

// syncRun carries the state of one synchronization.
type syncRun struct {
	ctx    context.Context
	store  store.StepStoreInterface
	jobID  string
	graph  *model.StepGraph
	report *SyncReport
	logger *log.Logger
	// order tracks remote positions during a simulated run, nil otherwise.
	order *remoteOrder
}

func (r *syncRun) simulated() bool {
	return r.order != nil
}

func (r *syncRun) execute() error {
	for _, step := range r.graph.DeletedSteps() {
		if !step.Committed() {
			continue
		}
		if err := r.deleteStep(step, ReasonPendingDelete); err != nil {
			return err
		}
		if !r.simulated() {
			r.graph.PurgeDeleted(step)
		}
	}

	if r.graph.RebuildRequired() {
		if err := r.rebuild(); err != nil {
			return err
		}
	} else {
		for _, step := range r.graph.Steps() {
			if err := r.syncStep(step); err != nil {
				return err
			}
		}
	}

	return r.syncStartStep()
}

// rebuild deletes every committed step and creates all steps again in position order.
func (r *syncRun) rebuild() error {
	r.report.Rebuilt = true
	steps := r.graph.Steps()

	for _, step := range steps {
		if !step.Committed() {
			continue
		}
		if err := r.deleteStep(step, ReasonRebuild); err != nil {
			return err
		}
		if !r.simulated() {
			step.Uncommit()
		}
	}
	for _, step := range steps {
		if err := r.createStep(step, ReasonRebuild); err != nil {
			return err
		}
	}
	return nil
}

func (r *syncRun) syncStep(step *model.Step) error {
	if !step.Committed() {
		return r.createStep(step, "")
	}

	if err := r.checkContext(); err != nil {
		return err
	}
	remote, err := r.store.GetStep(r.ctx, r.jobID, step.Identity())
	if err != nil {
		return r.storeError("get step", step, err)
	}

	remotePosition := remote.Position
	if r.simulated() {
		remotePosition = r.order.position(step.Identity())
	}
	if remotePosition != step.Position() {
		r.logger.Debug("Remote step position differs", log.String(log.LoggerKeyStepID, step.Identity()),
			log.Int("remote", remotePosition), log.Int("local", step.Position()))
		if err := r.deleteStep(step, ReasonPositionMismatch); err != nil {
			return err
		}
		if !r.simulated() {
			step.Uncommit()
		}
		return r.createStep(step, ReasonPositionMismatch)
	}

	desired := r.graph.ToRemote(step)
	changed := model.DiffStep(remote, desired)
	if len(changed) == 0 {
		return nil
	}

	if !r.simulated() {
		if err := r.checkContext(); err != nil {
			return err
		}
		update := model.StepUpdate{
			Changed:   changed,
			Fields:    desired.Fields,
			OnSuccess: desired.OnSuccess,
			OnFailure: desired.OnFailure,
		}
		if err := r.store.AlterStep(r.ctx, step.Identity(), update); err != nil {
			return r.storeError("alter step", step, err)
		}
	}
	r.record(Operation{Kind: OperationAlter, StepName: step.Fields.Name, Position: step.Position(),
		Identity: step.Identity(), Changed: changed})
	return nil
}

func (r *syncRun) createStep(step *model.Step, reason string) error {
	desired := r.graph.ToRemote(step)
	// The store assigns the identity of a created step.
	desired.Identity = ""
	identity := ""

	if r.simulated() {
		r.order.insert(step.Position(), "")
	} else {
		if err := r.checkContext(); err != nil {
			return err
		}
		var err error
		identity, err = r.store.CreateStep(r.ctx, r.jobID, desired)
		if err != nil {
			return r.storeError("create step", step, err)
		}
		step.Commit(identity)
	}

	r.record(Operation{Kind: OperationCreate, StepName: step.Fields.Name, Position: step.Position(),
		Identity: identity, Reason: reason})
	return nil
}

func (r *syncRun) deleteStep(step *model.Step, reason string) error {
	if r.simulated() {
		r.order.remove(step.Identity())
	} else {
		if err := r.checkContext(); err != nil {
			return err
		}
		if err := r.store.DeleteStep(r.ctx, step.Identity()); err != nil {
			return r.storeError("delete step", step, err)
		}
	}

	r.record(Operation{Kind: OperationDelete, StepName: step.Fields.Name, Position: step.Position(),
		Identity: step.Identity(), Reason: reason})
	return nil
}

// syncStartStep sets the remote start step when it differs. A graph without a start step
// starts with its first step.
func (r *syncRun) syncStartStep() error {
	desired := r.graph.StartPosition()
	if desired == 0 && r.graph.Len() > 0 {
		desired = 1
	}

	if err := r.checkContext(); err != nil {
		return err
	}
	current, err := r.store.GetStartStep(r.ctx, r.jobID)
	if err != nil {
		return &syncerror.TransportError{Op: "get start step", Err: err}
	}
	if current == desired {
		return nil
	}

	if !r.simulated() {
		if err := r.checkContext(); err != nil {
			return err
		}
		if err := r.store.SetStartStep(r.ctx, r.jobID, desired); err != nil {
			return &syncerror.TransportError{Op: "set start step", Err: err}
		}
	}
	r.record(Operation{Kind: OperationSetStartStep, Position: desired})
	return nil
}

// loadRemoteOrder reads the remote step order that a simulated run keeps up to date.
func (r *syncRun) loadRemoteOrder() error {
	remote, err := r.store.ListCommittedSteps(r.ctx, r.jobID)
	if err != nil {
		return &syncerror.TransportError{Op: "list committed steps", Err: err}
	}
	slices.SortFunc(remote, func(a, b model.RemoteStep) int { return a.Position - b.Position })

	r.order = &remoteOrder{}
	for _, step := range remote {
		r.order.ids = append(r.order.ids, step.Identity)
	}
	return nil
}

func (r *syncRun) record(op Operation) {
	r.logger.Debug("Step operation", log.String("kind", string(op.Kind)), log.String("step", op.StepName),
		log.Int("position", op.Position), log.Strings("changed", op.Changed),
		log.Bool("simulated", r.simulated()))
	r.report.add(op)
}

func (r *syncRun) checkContext() error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("synchronization of job %s stopped: %w", r.jobID, err)
	}
	return nil
}

// storeError classifies a failed store call. A step the store does not know is a conflict
// with the local copy, anything else is a transport failure.
func (r *syncRun) storeError(op string, step *model.Step, err error) error {
	if errors.Is(err, model.ErrStepNotFound) || errors.Is(err, model.ErrInvalidStepPosition) {
		return &syncerror.ConflictError{Identity: step.Identity(), Reason: op + " for " + step.Fields.Name, Err: err}
	}
	return &syncerror.TransportError{Op: op, Err: err}
}

// remoteOrder mirrors how the store shifts positions on create and delete.
type remoteOrder struct {
	ids []string
}

func (o *remoteOrder) position(identity string) int {
	return slices.Index(o.ids, identity) + 1
}

func (o *remoteOrder) insert(position int, identity string) {
	index := min(max(position-1, 0), len(o.ids))
	o.ids = slices.Insert(o.ids, index, identity)
}

func (o *remoteOrder) remove(identity string) {
	if i := slices.Index(o.ids, identity); i >= 0 {
		o.ids = slices.Delete(o.ids, i, i+1)
	}
}
