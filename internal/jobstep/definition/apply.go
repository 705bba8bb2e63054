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

package definition

import (
	"slices"

	"github.com/sqlagent/jobsync/internal/jobstep/model"
)

// Apply edits the graph until it matches the definition. Steps are matched by name: steps
// missing from the definition are deleted, kept steps are moved into the defined order,
// new steps are inserted, and every step gets the defined fields and policies.
func Apply(graph *model.StepGraph, def *JobDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	wanted := make(map[string]bool, len(def.Steps))
	for _, sd := range def.Steps {
		wanted[sd.Name] = true
	}

	// The first step with a wanted name is kept, later duplicates are deleted.
	kept := make(map[string]*model.Step)
	for _, step := range graph.Steps() {
		name := step.Fields.Name
		if _, dup := kept[name]; wanted[name] && !dup {
			kept[name] = step
			continue
		}
		if err := graph.DeleteStep(step); err != nil {
			return err
		}
	}

	index := 0
	for _, sd := range def.Steps {
		step, ok := kept[sd.Name]
		if !ok {
			continue
		}
		if current := slices.Index(graph.Steps(), step); current != index {
			if err := graph.MoveStep(current, index); err != nil {
				return err
			}
		}
		index++
	}

	for i, sd := range def.Steps {
		step, ok := kept[sd.Name]
		if !ok {
			step = model.NewStep(sd.Fields())
			if err := graph.InsertStep(i, step); err != nil {
				return err
			}
			kept[sd.Name] = step
		}
		step.Fields = sd.Fields()
	}

	for _, sd := range def.Steps {
		step := kept[sd.Name]
		onSuccess, err := def.resolvePolicy(sd.OnSuccess, model.ContinueNext())
		if err != nil {
			return err
		}
		onFailure, err := def.resolvePolicy(sd.OnFailure, model.QuitFailure())
		if err != nil {
			return err
		}
		if err := graph.SetOnSuccess(step, onSuccess); err != nil {
			return err
		}
		if err := graph.SetOnFailure(step, onFailure); err != nil {
			return err
		}
	}

	if def.StartStep != "" {
		return graph.SetStartStep(kept[def.StartStep].Position())
	}
	return nil
}
