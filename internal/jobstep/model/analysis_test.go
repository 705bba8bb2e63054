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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindUnreachableReportsStepWithoutInboundEdge(t *testing.T) {
	g, steps := newGraph("first", "second")
	require.NoError(t, g.SetOnSuccess(steps[0], QuitSuccess()))
	require.NoError(t, g.SetOnFailure(steps[0], QuitFailure()))

	unreachable := g.FindUnreachable()

	assert.Equal(t, []*Step{steps[1]}, unreachable)
	assert.Equal(t, 2, unreachable[0].Position())
}

func TestFindUnreachableMarksDirectSuccessorsOnly(t *testing.T) {
	g, steps := newGraph("a", "b", "c", "d")
	// a quits; c and d form a cycle that the start step never reaches.
	require.NoError(t, g.SetOnSuccess(steps[0], QuitSuccess()))
	require.NoError(t, g.SetOnSuccess(steps[1], QuitSuccess()))
	require.NoError(t, g.SetOnSuccess(steps[2], GoTo(4)))
	require.NoError(t, g.SetOnSuccess(steps[3], GoTo(3)))

	assert.Equal(t, []string{"b"}, names(g.FindUnreachable()))
}

func TestFindUnreachableWithoutStartStep(t *testing.T) {
	g, steps := newGraph("a", "b")
	require.NoError(t, g.DeleteStep(steps[0]))

	assert.Equal(t, []*Step{steps[1]}, g.FindUnreachable())
	assert.Empty(t, NewStepGraph().FindUnreachable())
}

func TestFindUnreachableUsesEffectivePolicies(t *testing.T) {
	g, steps := newGraph("a", "b", "c")
	require.NoError(t, g.SetOnSuccess(steps[0], GoTo(3)))
	require.NoError(t, g.SetOnFailure(steps[0], QuitFailure()))
	require.NoError(t, g.SetOnSuccess(steps[1], QuitSuccess()))
	assert.Equal(t, []string{"b"}, names(g.FindUnreachable()))

	// Deleting c turns a's success policy into "next", which reaches b.
	require.NoError(t, g.DeleteStep(steps[2]))
	assert.Empty(t, g.FindUnreachable())
}

func TestWillLastStepPolicyChange(t *testing.T) {
	assert.False(t, NewStepGraph().WillLastStepPolicyChange())

	g, steps := newGraph("a", "b")
	assert.True(t, g.WillLastStepPolicyChange())

	require.NoError(t, g.SetOnSuccess(steps[1], QuitSuccess()))
	assert.False(t, g.WillLastStepPolicyChange())

	require.NoError(t, g.SetOnSuccess(steps[1], GoTo(1)))
	assert.False(t, g.WillLastStepPolicyChange())
}

func TestSavedPoliciesDegradeLastStep(t *testing.T) {
	g, steps := newGraph("a", "b")
	require.NoError(t, g.SetOnFailure(steps[1], ContinueNext()))

	onSuccess, onFailure := g.SavedPolicies(steps[0])
	assert.Equal(t, ContinueNext(), onSuccess)
	assert.Equal(t, QuitFailure(), onFailure)

	onSuccess, onFailure = g.SavedPolicies(steps[1])
	assert.Equal(t, QuitSuccess(), onSuccess)
	assert.Equal(t, QuitFailure(), onFailure)
}

func TestApplySavedPoliciesFixesLastStep(t *testing.T) {
	g, steps := newGraph("a", "b")
	require.NoError(t, g.SetOnFailure(steps[1], GoTo(1)))
	require.True(t, g.WillLastStepPolicyChange())

	g.ApplySavedPolicies()

	assert.Equal(t, ContinueNext(), g.OnSuccess(steps[0]))
	assert.Equal(t, QuitSuccess(), g.OnSuccess(steps[1]))
	assert.Equal(t, GoTo(1), g.OnFailure(steps[1]))
	assert.False(t, g.WillLastStepPolicyChange())
}
