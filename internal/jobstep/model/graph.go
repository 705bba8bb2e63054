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
	"slices"

	"github.com/sqlagent/jobsync/internal/system/error/syncerror"
)

// OrderChangeKind names the mutation behind an OrderChange.
type OrderChangeKind string

const (
	// OrderChangeAdd is fired when a step is appended.
	OrderChangeAdd OrderChangeKind = "add"
	// OrderChangeInsert is fired when a step is inserted.
	OrderChangeInsert OrderChangeKind = "insert"
	// OrderChangeDelete is fired when a step is deleted.
	OrderChangeDelete OrderChangeKind = "delete"
	// OrderChangeMove is fired when a step is moved.
	OrderChangeMove OrderChangeKind = "move"
	// OrderChangeRestore is fired when a deleted step is restored.
	OrderChangeRestore OrderChangeKind = "restore"
)

// OrderChange describes a structural mutation of a StepGraph.
type OrderChange struct {
	Kind OrderChangeKind
	// Position is the position of the affected step after the mutation, 0 for deletes.
	Position int
	// Reordered is set when the relative order of existing steps changed.
	Reordered bool
}

// OrderObserver receives the notifications of a StepGraph.
type OrderObserver func(change OrderChange)

// StepGraph is the ordered collection of the steps of one job.
//
// Positions are kept dense: after every structural mutation steps[i] is at position i+1.
// A GoTo policy references its target node rather than a position, so renumbering never
// invalidates it. A reference to a deleted node reads back as the outcome's fallback.
type StepGraph struct {
	steps     []*Step
	deleted   []*Step
	live      map[int]*Step
	start     int
	nextKey   int
	rebuild   bool
	observers []OrderObserver
}

// NewStepGraph creates an empty graph.
func NewStepGraph() *StepGraph {
	return &StepGraph{live: make(map[int]*Step)}
}

// Subscribe registers an observer for step order changes.
func (g *StepGraph) Subscribe(observer OrderObserver) {
	g.observers = append(g.observers, observer)
}

// Len returns the number of steps.
func (g *StepGraph) Len() int {
	return len(g.steps)
}

// Steps returns the steps in position order.
func (g *StepGraph) Steps() []*Step {
	return slices.Clone(g.steps)
}

// DeletedSteps returns the committed steps waiting to be purged from the remote store.
func (g *StepGraph) DeletedSteps() []*Step {
	return slices.Clone(g.deleted)
}

// StepAt returns the step at the given 1-based position.
func (g *StepGraph) StepAt(position int) (*Step, bool) {
	if position < 1 || position > len(g.steps) {
		return nil, false
	}
	return g.steps[position-1], true
}

// RebuildRequired reports whether steps were reordered since the last synchronization.
func (g *StepGraph) RebuildRequired() bool {
	return g.rebuild
}

// AddStep appends a step.
func (g *StepGraph) AddStep(step *Step) error {
	return g.InsertStep(len(g.steps), step)
}

// InsertStep inserts a step at the given 0-based index. Existing steps from index onward
// move one position down.
func (g *StepGraph) InsertStep(index int, step *Step) error {
	if err := g.checkDetached(step); err != nil {
		return err
	}
	if index < 0 || index > len(g.steps) {
		return syncerror.NewValidationError("index", "insert index %d out of range [0, %d]", index, len(g.steps))
	}

	g.nextKey++
	step.key = g.nextKey
	g.attach(index, step)

	kind := OrderChangeInsert
	if index == len(g.steps)-1 {
		kind = OrderChangeAdd
	}
	g.notify(OrderChange{Kind: kind, Position: step.position})
	return nil
}

// DeleteStep removes a step. A committed step is kept as pending delete until the next
// synchronization purges it remotely; an uncommitted one is discarded. Deleting the start
// step clears the start step.
func (g *StepGraph) DeleteStep(step *Step) error {
	index := g.indexOf(step)
	if index < 0 {
		return syncerror.NewValidationError("step", "step %q is not part of the graph", step.Fields.Name)
	}

	g.steps = slices.Delete(g.steps, index, index+1)
	delete(g.live, step.key)
	if g.start == step.key {
		g.start = 0
	}
	step.position = 0
	if step.committed {
		step.pendingDelete = true
		g.deleted = append(g.deleted, step)
	} else {
		step.key = 0
	}
	g.renumber(index)

	g.notify(OrderChange{Kind: OrderChangeDelete})
	return nil
}

// MoveStep moves the step at the 0-based index from to the index to by swapping it with its
// neighbour one position at a time. Steps in between keep their relative order.
func (g *StepGraph) MoveStep(from, to int) error {
	n := len(g.steps)
	if from < 0 || from >= n {
		return syncerror.NewValidationError("from", "move source %d out of range [0, %d)", from, n)
	}
	if to < 0 || to >= n {
		return syncerror.NewValidationError("to", "move destination %d out of range [0, %d)", to, n)
	}
	if from == to {
		return nil
	}

	for i := from; i != to; {
		next := i + 1
		if to < from {
			next = i - 1
		}
		g.steps[i], g.steps[next] = g.steps[next], g.steps[i]
		i = next
	}
	g.renumber(min(from, to))
	g.rebuild = true

	g.notify(OrderChange{Kind: OrderChangeMove, Position: to + 1, Reordered: true})
	return nil
}

// RestoreStep puts a pending-delete step back at the given 0-based index. References that
// targeted it resolve to it again.
func (g *StepGraph) RestoreStep(step *Step, index int) error {
	pending := slices.Index(g.deleted, step)
	if pending < 0 {
		return syncerror.NewValidationError("step", "step %q is not pending delete", step.Fields.Name)
	}
	if index < 0 || index > len(g.steps) {
		return syncerror.NewValidationError("index", "restore index %d out of range [0, %d]", index, len(g.steps))
	}

	g.deleted = slices.Delete(g.deleted, pending, pending+1)
	step.pendingDelete = false
	g.attach(index, step)

	g.notify(OrderChange{Kind: OrderChangeRestore, Position: step.position})
	return nil
}

// PurgeDeleted forgets a pending-delete step once the remote store no longer holds it.
func (g *StepGraph) PurgeDeleted(step *Step) {
	if i := slices.Index(g.deleted, step); i >= 0 {
		g.deleted = slices.Delete(g.deleted, i, i+1)
		step.key = 0
	}
}

// MarkSynchronized resets the state consumed by a successful synchronization.
func (g *StepGraph) MarkSynchronized() {
	for _, step := range g.deleted {
		step.key = 0
	}
	g.deleted = nil
	g.rebuild = false
}

// StartStep returns the designated start step.
func (g *StepGraph) StartStep() (*Step, bool) {
	step, ok := g.live[g.start]
	return step, ok
}

// StartPosition returns the position of the start step, or 0 when none is designated.
func (g *StepGraph) StartPosition() int {
	if step, ok := g.StartStep(); ok {
		return step.position
	}
	return 0
}

// SetStartStep designates the step at the given position as the start step.
func (g *StepGraph) SetStartStep(position int) error {
	step, ok := g.StepAt(position)
	if !ok {
		return syncerror.NewValidationError("start_step", "position %d out of range [1, %d]", position, len(g.steps))
	}
	g.start = step.key
	return nil
}

// SetOnSuccess sets the policy applied when the step succeeds.
func (g *StepGraph) SetOnSuccess(step *Step, policy Policy) error {
	return g.setPolicy(step, OutcomeSuccess, policy)
}

// SetOnFailure sets the policy applied when the step fails.
func (g *StepGraph) SetOnFailure(step *Step, policy Policy) error {
	return g.setPolicy(step, OutcomeFailure, policy)
}

// OnSuccess returns the effective success policy of the step.
func (g *StepGraph) OnSuccess(step *Step) Policy {
	return g.resolve(step.onSuccess, OutcomeSuccess)
}

// OnFailure returns the effective failure policy of the step.
func (g *StepGraph) OnFailure(step *Step) Policy {
	return g.resolve(step.onFailure, OutcomeFailure)
}

func (g *StepGraph) setPolicy(step *Step, outcome Outcome, policy Policy) error {
	if g.indexOf(step) < 0 {
		return syncerror.NewValidationError("step", "step %q is not part of the graph", step.Fields.Name)
	}

	ref := policyRef{action: policy.Action}
	switch policy.Action {
	case ActionQuitSuccess, ActionQuitFailure, ActionContinueNext:
	case ActionGoTo:
		target, ok := g.StepAt(policy.Target)
		if !ok {
			return syncerror.NewValidationError(outcome.String(),
				"goto target %d out of range [1, %d]", policy.Target, len(g.steps))
		}
		ref.targetKey = target.key
	default:
		return syncerror.NewValidationError(outcome.String(), "unknown policy action %d", int(policy.Action))
	}

	step.setPolicy(outcome, ref)
	return nil
}

func (g *StepGraph) resolve(ref policyRef, outcome Outcome) Policy {
	if ref.action != ActionGoTo {
		return Policy{Action: ref.action}
	}
	target, ok := g.live[ref.targetKey]
	if !ok {
		return fallback(outcome)
	}
	return GoTo(target.position)
}

func (g *StepGraph) checkDetached(step *Step) error {
	if step == nil {
		return syncerror.NewValidationError("step", "step is nil")
	}
	if step.key != 0 {
		return syncerror.NewValidationError("step", "step %q already belongs to a graph", step.Fields.Name)
	}
	return nil
}

func (g *StepGraph) attach(index int, step *Step) {
	g.steps = slices.Insert(g.steps, index, step)
	g.live[step.key] = step
	if len(g.steps) == 1 && g.start == 0 {
		g.start = step.key
	}
	g.renumber(index)
}

func (g *StepGraph) indexOf(step *Step) int {
	if step == nil || step.key == 0 || g.live[step.key] != step {
		return -1
	}
	return step.position - 1
}

// renumber assigns dense positions to steps from index onward.
func (g *StepGraph) renumber(from int) {
	for i := from; i < len(g.steps); i++ {
		g.steps[i].position = i + 1
	}
	for i, step := range g.steps {
		syncerror.Invariant(step.position == i+1, "step %q at index %d has position %d",
			step.Fields.Name, i, step.position)
	}
}

func (g *StepGraph) notify(change OrderChange) {
	for _, observer := range g.observers {
		observer(change)
	}
}
