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
	"strconv"
	"strings"
)

// PolicyAction identifies what happens after a step completes with a given outcome.
// The numeric values match the action codes kept in the agent store.
type PolicyAction int

const (
	// ActionQuitSuccess ends the job reporting success.
	ActionQuitSuccess PolicyAction = 1
	// ActionQuitFailure ends the job reporting failure.
	ActionQuitFailure PolicyAction = 2
	// ActionContinueNext runs the step at the next position.
	ActionContinueNext PolicyAction = 3
	// ActionGoTo runs the step at the policy's target position.
	ActionGoTo PolicyAction = 4
)

// Outcome is the result of a step run that a completion policy is conditioned on.
type Outcome int

const (
	// OutcomeSuccess is the outcome of a step that succeeded.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure is the outcome of a step that failed.
	OutcomeFailure
)

func (o Outcome) String() string {
	if o == OutcomeFailure {
		return "on_failure"
	}
	return "on_success"
}

// Policy is a completion policy with any step reference resolved to a position.
// Target is only meaningful for ActionGoTo.
type Policy struct {
	Action PolicyAction
	Target int
}

// QuitSuccess returns the policy that ends the job reporting success.
func QuitSuccess() Policy { return Policy{Action: ActionQuitSuccess} }

// QuitFailure returns the policy that ends the job reporting failure.
func QuitFailure() Policy { return Policy{Action: ActionQuitFailure} }

// ContinueNext returns the policy that runs the following step.
func ContinueNext() Policy { return Policy{Action: ActionContinueNext} }

// GoTo returns the policy that runs the step at the given 1-based position.
func GoTo(position int) Policy { return Policy{Action: ActionGoTo, Target: position} }

// IsGoTo reports whether the policy references another step.
func (p Policy) IsGoTo() bool {
	return p.Action == ActionGoTo
}

// TargetCode returns the step position recorded next to the action code in the store.
func (p Policy) TargetCode() int {
	if p.Action == ActionGoTo {
		return p.Target
	}
	return 0
}

func (p Policy) String() string {
	switch p.Action {
	case ActionQuitSuccess:
		return "quit_success"
	case ActionQuitFailure:
		return "quit_failure"
	case ActionContinueNext:
		return "next"
	case ActionGoTo:
		return "goto:" + strconv.Itoa(p.Target)
	default:
		return fmt.Sprintf("unknown(%d)", int(p.Action))
	}
}

// PolicyFromCodes builds a policy from the action code and target step kept in the store.
func PolicyFromCodes(action, target int) (Policy, error) {
	switch PolicyAction(action) {
	case ActionQuitSuccess:
		return QuitSuccess(), nil
	case ActionQuitFailure:
		return QuitFailure(), nil
	case ActionContinueNext:
		return ContinueNext(), nil
	case ActionGoTo:
		if target < 1 {
			return Policy{}, fmt.Errorf("goto action with invalid target step %d", target)
		}
		return GoTo(target), nil
	default:
		return Policy{}, fmt.Errorf("unknown policy action code %d", action)
	}
}

// ParsePolicy parses the textual form produced by Policy.String. "goto 3" is accepted too.
func ParsePolicy(value string) (Policy, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "quit_success":
		return QuitSuccess(), nil
	case "quit_failure":
		return QuitFailure(), nil
	case "next", "continue_next":
		return ContinueNext(), nil
	}

	rest, ok := strings.CutPrefix(v, "goto")
	if !ok {
		return Policy{}, fmt.Errorf("unknown completion policy %q", value)
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	target, err := strconv.Atoi(rest)
	if err != nil || target < 1 {
		return Policy{}, fmt.Errorf("invalid goto target in completion policy %q", value)
	}
	return GoTo(target), nil
}

// policyRef is the stored form of a completion policy. A GoTo keeps the key of the target
// node so the reference follows the node through renumbering.
type policyRef struct {
	action    PolicyAction
	targetKey int
}

// fallback returns the policy a dangling reference reads back as for the given outcome.
func fallback(outcome Outcome) Policy {
	if outcome == OutcomeFailure {
		return QuitFailure()
	}
	return ContinueNext()
}
