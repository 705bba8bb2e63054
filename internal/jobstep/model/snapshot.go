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
	"fmt"
	"slices"
)

// RemoteStep is a step as held by the remote store.
type RemoteStep struct {
	Identity  string
	Position  int
	Fields    StepFields
	OnSuccess Policy
	OnFailure Policy
}

// StepUpdate carries the values of an alter. Only the fields named in Changed are written.
type StepUpdate struct {
	Changed   []string
	Fields    StepFields
	OnSuccess Policy
	OnFailure Policy
}

// Has reports whether the update writes the named field.
func (u StepUpdate) Has(field string) bool {
	return slices.Contains(u.Changed, field)
}

// DiffStep returns the names of the fields and policies that differ between the remote copy of
// a step and its desired state.
func DiffStep(remote, desired RemoteStep) []string {
	changed := DiffFields(remote.Fields, desired.Fields)
	if remote.OnSuccess != desired.OnSuccess {
		changed = append(changed, FieldOnSuccess)
	}
	if remote.OnFailure != desired.OnFailure {
		changed = append(changed, FieldOnFailure)
	}
	return changed
}

// ToRemote returns the state the remote store should hold for a step of the graph.
func (g *StepGraph) ToRemote(step *Step) RemoteStep {
	onSuccess, onFailure := g.SavedPolicies(step)
	return RemoteStep{
		Identity:  step.identity,
		Position:  step.position,
		Fields:    step.Fields,
		OnSuccess: onSuccess,
		OnFailure: onFailure,
	}
}

// NewGraphFromSnapshot builds a graph of committed steps from the remote copy of a job.
// Remote GoTo targets that do not exist read back as the fallback policy.
func NewGraphFromSnapshot(remote []RemoteStep, startPosition int) (*StepGraph, error) {
	ordered := slices.Clone(remote)
	slices.SortFunc(ordered, func(a, b RemoteStep) int { return a.Position - b.Position })

	g := NewStepGraph()
	for i, rs := range ordered {
		if rs.Position != i+1 {
			return nil, fmt.Errorf("step %q has position %d, expected %d: %w",
				rs.Fields.Name, rs.Position, i+1, ErrInvalidStepPosition)
		}
		step := NewStep(rs.Fields)
		step.Commit(rs.Identity)
		if err := g.AddStep(step); err != nil {
			return nil, err
		}
	}

	for i, rs := range ordered {
		step := g.steps[i]
		step.setPolicy(OutcomeSuccess, g.refFor(rs.OnSuccess))
		step.setPolicy(OutcomeFailure, g.refFor(rs.OnFailure))
	}

	g.start = 0
	if startPosition >= 1 && startPosition <= len(g.steps) {
		g.start = g.steps[startPosition-1].key
	}
	return g, nil
}

// refFor converts a resolved policy into a node reference. A target outside the graph
// yields a reference that resolves to the fallback policy.
func (g *StepGraph) refFor(policy Policy) policyRef {
	if !policy.IsGoTo() {
		return policyRef{action: policy.Action}
	}
	if target, ok := g.StepAt(policy.Target); ok {
		return policyRef{action: ActionGoTo, targetKey: target.key}
	}
	return policyRef{action: ActionGoTo, targetKey: -1}
}
