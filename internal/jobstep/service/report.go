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

// OperationKind names a remote operation issued by a synchronization.
type OperationKind string

const (
	// OperationCreate creates a step.
	OperationCreate OperationKind = "create"
	// OperationAlter writes the changed fields of a step.
	OperationAlter OperationKind = "alter"
	// OperationDelete deletes a step.
	OperationDelete OperationKind = "delete"
	// OperationSetStartStep changes the start step of the job.
	OperationSetStartStep OperationKind = "set_start_step"
)

// Reasons attached to operations that are not plain edits.
const (
	ReasonPendingDelete    = "pending delete"
	ReasonRebuild          = "step order changed"
	ReasonPositionMismatch = "remote position mismatch"
)

// Operation is one remote operation of a synchronization, issued or planned.
type Operation struct {
	Kind     OperationKind
	StepName string
	// Position is the local position of the step, or the new start position.
	Position int
	// Identity is the remote identity of the step, empty for simulated creates.
	Identity string
	Changed  []string
	Reason   string
}

// SyncReport lists the operations of a synchronization in the order they were issued.
type SyncReport struct {
	JobID      string
	Simulated  bool
	Rebuilt    bool
	Operations []Operation
}

// Count returns the number of operations of the given kind.
func (r *SyncReport) Count(kind OperationKind) int {
	n := 0
	for _, op := range r.Operations {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *SyncReport) add(op Operation) {
	r.Operations = append(r.Operations, op)
}

// Analysis is the pre-flight check of a graph.
type Analysis struct {
	// Unreachable holds the positions of steps no policy and no start designation point at.
	Unreachable []int
	// LastStepPolicyChange is set when saving will replace the last step's success policy.
	LastStepPolicyChange bool
}

// HasWarnings reports whether the analysis found anything to warn about.
func (a Analysis) HasWarnings() bool {
	return len(a.Unreachable) > 0 || a.LastStepPolicyChange
}
