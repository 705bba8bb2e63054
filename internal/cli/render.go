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

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sqlagent/jobsync/internal/jobstep/model"
	"github.com/sqlagent/jobsync/internal/jobstep/service"
	proxyservice "github.com/sqlagent/jobsync/internal/proxy/service"
	"github.com/sqlagent/jobsync/internal/system/error/serviceerror"

	"github.com/fatih/color"
)

var (
	titleColor  = color.New(color.Bold)
	createColor = color.New(color.FgGreen)
	alterColor  = color.New(color.FgYellow)
	deleteColor = color.New(color.FgRed)
	startColor  = color.New(color.FgCyan)
	warnColor   = color.New(color.FgHiYellow)
	errColor    = color.New(color.FgHiRed)
	okColor     = color.New(color.FgHiGreen)
)

// renderSyncReport writes the operations of a step synchronization.
func renderSyncReport(w io.Writer, job string, report *service.SyncReport) {
	title := "Job " + job
	if report.Simulated {
		title += " (simulated)"
	}
	fmt.Fprintln(w, titleColor.Sprint(title))

	if len(report.Operations) == 0 {
		fmt.Fprintln(w, okColor.Sprint("  up to date"))
		return
	}
	if report.Rebuilt {
		fmt.Fprintln(w, warnColor.Sprint("  step order changed, every step is recreated"))
	}
	for _, op := range report.Operations {
		fmt.Fprintln(w, "  "+formatOperation(op))
	}
	fmt.Fprintf(w, "  %d created, %d altered, %d deleted\n", report.Count(service.OperationCreate),
		report.Count(service.OperationAlter), report.Count(service.OperationDelete))
}

func formatOperation(op service.Operation) string {
	label := fmt.Sprintf("step %q", op.StepName)
	if op.Position > 0 {
		label = fmt.Sprintf("step %d %q", op.Position, op.StepName)
	}

	var line string
	switch op.Kind {
	case service.OperationCreate:
		line = createColor.Sprint("+ create " + label)
	case service.OperationAlter:
		line = alterColor.Sprint("~ alter  "+label) + ": " + strings.Join(op.Changed, ", ")
	case service.OperationDelete:
		line = deleteColor.Sprint("- delete " + label)
	case service.OperationSetStartStep:
		line = startColor.Sprintf("> start  step %d", op.Position)
	default:
		line = string(op.Kind)
	}
	if op.Reason != "" {
		line += " (" + op.Reason + ")"
	}
	return line
}

// renderAnalysis writes the pre-flight warnings of a graph.
func renderAnalysis(w io.Writer, graph *model.StepGraph, analysis service.Analysis) {
	for _, position := range analysis.Unreachable {
		step, _ := graph.StepAt(position)
		fmt.Fprintln(w, warnColor.Sprintf("warning: step %d %q is unreachable", position, step.Fields.Name))
	}
	if analysis.LastStepPolicyChange {
		last, _ := graph.StepAt(graph.Len())
		fmt.Fprintln(w, warnColor.Sprintf("warning: last step %q continues to the next step, it will quit with success",
			last.Fields.Name))
	}
}

// renderGraph writes the steps of a job with their effective policies.
func renderGraph(w io.Writer, job model.Job, graph *model.StepGraph) {
	fmt.Fprintln(w, titleColor.Sprintf("Job %s", job.Name))
	if job.Description != "" {
		fmt.Fprintln(w, "  "+job.Description)
	}
	renderSteps(w, graph)
}

// renderNewJob writes the steps of a job that a synchronization would create.
func renderNewJob(w io.Writer, name string, graph *model.StepGraph) {
	fmt.Fprintln(w, titleColor.Sprintf("Job %s (simulated)", name))
	fmt.Fprintln(w, createColor.Sprint("  job does not exist and will be created"))
	renderSteps(w, graph)
}

func renderSteps(w io.Writer, graph *model.StepGraph) {
	if graph.Len() == 0 {
		fmt.Fprintln(w, "  no steps")
		return
	}
	start := graph.StartPosition()
	for _, step := range graph.Steps() {
		marker := " "
		if step.Position() == start {
			marker = startColor.Sprint("*")
		}
		fmt.Fprintf(w, "%s %d. %s [%s] on success: %s, on failure: %s\n", marker, step.Position(),
			step.Fields.Name, step.Fields.Subsystem, graph.OnSuccess(step), graph.OnFailure(step))
	}
}

// renderPrincipalReport writes the outcome of a principal synchronization per category.
func renderPrincipalReport(w io.Writer, proxy string, report *proxyservice.PrincipalReport) {
	title := "Proxy " + proxy
	if report.Simulated {
		title += " (simulated)"
	}
	fmt.Fprintln(w, titleColor.Sprint(title))

	for _, result := range report.Categories {
		var parts []string
		if len(result.Removed) > 0 {
			parts = append(parts, deleteColor.Sprint("removed "+strings.Join(result.Removed, ", ")))
		}
		if len(result.Added) > 0 {
			parts = append(parts, createColor.Sprint("added "+strings.Join(result.Added, ", ")))
		}
		if result.Err != nil {
			parts = append(parts, errColor.Sprintf("failed: %v", result.Err))
		}
		if len(parts) == 0 {
			parts = append(parts, "unchanged")
		}
		fmt.Fprintf(w, "  %s: %s\n", result.Category, strings.Join(parts, "; "))
	}
}

func renderError(w io.Writer, svcErr *serviceerror.ServiceError) {
	fmt.Fprintln(w, errColor.Sprint("error: "+svcErr.String()))
}
