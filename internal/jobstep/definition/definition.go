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

// Package definition reads job definition documents and applies them to a step graph.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sqlagent/jobsync/internal/jobstep/model"
	"github.com/sqlagent/jobsync/internal/system/error/syncerror"

	"gopkg.in/yaml.v3"
)

// JobDefinition is the desired state of a job.
type JobDefinition struct {
	Job         string           `yaml:"job"`
	Description string           `yaml:"description"`
	StartStep   string           `yaml:"start_step"`
	Steps       []StepDefinition `yaml:"steps"`
}

// StepDefinition is the desired state of a step. Policies take the form quit_success,
// quit_failure, next, or goto:<step name or position>.
type StepDefinition struct {
	Name          string `yaml:"name"`
	Subsystem     string `yaml:"subsystem"`
	Command       string `yaml:"command"`
	Database      string `yaml:"database"`
	DatabaseUser  string `yaml:"database_user"`
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryInterval int    `yaml:"retry_interval"`
	OutputFile    string `yaml:"output_file"`
	Proxy         string `yaml:"proxy"`
	Flags         int    `yaml:"flags"`
	OnSuccess     string `yaml:"on_success"`
	OnFailure     string `yaml:"on_failure"`
}

// Fields returns the step payload of the definition.
func (d StepDefinition) Fields() model.StepFields {
	subsystem := d.Subsystem
	if subsystem == "" {
		subsystem = model.DefaultSubsystem
	}
	return model.StepFields{
		Name:             d.Name,
		Subsystem:        subsystem,
		Command:          d.Command,
		DatabaseName:     d.Database,
		DatabaseUserName: d.DatabaseUser,
		RetryAttempts:    d.RetryAttempts,
		RetryInterval:    d.RetryInterval,
		OutputFileName:   d.OutputFile,
		ProxyName:        d.Proxy,
		Flags:            d.Flags,
	}
}

// LoadJobDefinition reads a job definition file.
func LoadJobDefinition(path string) (*JobDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job definition: %w", err)
	}
	return ParseJobDefinition(data)
}

// ParseJobDefinition decodes and validates a job definition document.
func ParseJobDefinition(data []byte) (*JobDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def JobDefinition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, syncerror.NewValidationError("", "job definition is empty")
		}
		return nil, fmt.Errorf("failed to parse job definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition without looking at any graph.
func (d *JobDefinition) Validate() error {
	if d.Job == "" {
		return syncerror.NewValidationError("job", "job name is required")
	}

	seen := make(map[string]bool, len(d.Steps))
	for _, step := range d.Steps {
		if err := step.Fields().Validate(); err != nil {
			return err
		}
		if seen[step.Name] {
			return syncerror.NewValidationError("steps", "duplicate step name %q", step.Name)
		}
		seen[step.Name] = true
	}
	if d.StartStep != "" && !seen[d.StartStep] {
		return syncerror.NewValidationError("start_step", "unknown step %q", d.StartStep)
	}

	for _, step := range d.Steps {
		if _, err := d.resolvePolicy(step.OnSuccess, model.ContinueNext()); err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
		if _, err := d.resolvePolicy(step.OnFailure, model.QuitFailure()); err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
	}
	return nil
}

// resolvePolicy parses a policy, resolving a goto step name to its position in the definition.
func (d *JobDefinition) resolvePolicy(value string, def model.Policy) (model.Policy, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}

	if target, ok := strings.CutPrefix(strings.TrimSpace(value), "goto:"); ok {
		target = strings.TrimSpace(target)
		if _, err := strconv.Atoi(target); err != nil {
			for i, step := range d.Steps {
				if step.Name == target {
					return model.GoTo(i + 1), nil
				}
			}
			return model.Policy{}, syncerror.NewValidationError("policy", "goto names unknown step %q", target)
		}
	}

	policy, err := model.ParsePolicy(value)
	if err != nil {
		return model.Policy{}, syncerror.NewValidationError("policy", "%v", err)
	}
	if policy.IsGoTo() && policy.Target > len(d.Steps) {
		return model.Policy{}, syncerror.NewValidationError("policy",
			"goto target %d out of range [1, %d]", policy.Target, len(d.Steps))
	}
	return policy, nil
}
