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

// FindUnreachable returns the steps that no policy and no start designation points at, in
// position order.
//
// Only direct successors are marked: a step is reported when it has no inbound edge, not when
// it cannot be reached from the start step. Steps of a cycle that is cut off from the start
// step are therefore not reported.
func (g *StepGraph) FindUnreachable() []*Step {
	n := len(g.steps)
	marked := make([]bool, n)

	if start := g.StartPosition(); start >= 1 && start <= n {
		marked[start-1] = true
	}
	for i, step := range g.steps {
		for _, policy := range []Policy{g.OnSuccess(step), g.OnFailure(step)} {
			switch {
			case policy.Action == ActionContinueNext && i < n-1:
				marked[i+1] = true
			case policy.Action == ActionGoTo && policy.Target >= 1 && policy.Target <= n:
				marked[policy.Target-1] = true
			}
		}
	}

	var unreachable []*Step
	for i, step := range g.steps {
		if !marked[i] {
			unreachable = append(unreachable, step)
		}
	}
	return unreachable
}

// WillLastStepPolicyChange reports whether saving will replace the last step's success policy
// because it continues to a step that does not exist.
func (g *StepGraph) WillLastStepPolicyChange() bool {
	if len(g.steps) == 0 {
		return false
	}
	return g.OnSuccess(g.steps[len(g.steps)-1]).Action == ActionContinueNext
}

// SavedPolicies returns the policies written to the store for the step. They are the effective
// policies with ContinueNext on the last step degraded to the matching quit action.
func (g *StepGraph) SavedPolicies(step *Step) (onSuccess, onFailure Policy) {
	onSuccess, onFailure = g.OnSuccess(step), g.OnFailure(step)
	if step.position == len(g.steps) {
		if onSuccess.Action == ActionContinueNext {
			onSuccess = QuitSuccess()
		}
		if onFailure.Action == ActionContinueNext {
			onFailure = QuitFailure()
		}
	}
	return onSuccess, onFailure
}

// ApplySavedPolicies replaces every step's policies with the policies written by a save.
func (g *StepGraph) ApplySavedPolicies() {
	for _, step := range g.steps {
		onSuccess, onFailure := g.SavedPolicies(step)
		step.setPolicy(OutcomeSuccess, g.refFor(onSuccess))
		step.setPolicy(OutcomeFailure, g.refFor(onFailure))
	}
}
