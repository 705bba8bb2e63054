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
	"context"
	"errors"

	"github.com/sqlagent/jobsync/internal/jobstep/definition"
	"github.com/sqlagent/jobsync/internal/jobstep/model"
	"github.com/sqlagent/jobsync/internal/jobstep/service"
	"github.com/sqlagent/jobsync/internal/jobstep/store"
	"github.com/sqlagent/jobsync/internal/system/log"
	"github.com/sqlagent/jobsync/internal/system/utils"

	"github.com/spf13/cobra"
)

func (a *app) jobCmd() *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Manage agent jobs",
	}
	jobCmd.AddCommand(&cobra.Command{
		Use:   "apply <definition.yaml>",
		Short: "Synchronize a job with its definition",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runE(a.runJobApply),
	})
	jobCmd.AddCommand(&cobra.Command{
		Use:   "check <definition.yaml>",
		Short: "Report unreachable steps and policy changes of a definition",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runE(a.runJobCheck),
	})
	jobCmd.AddCommand(&cobra.Command{
		Use:   "show <job name>",
		Short: "Print the steps of a job",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runE(a.runJobShow),
	})
	return jobCmd
}

func (a *app) runJobApply(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)
	out := cmd.OutOrStdout()

	def, err := definition.LoadJobDefinition(args[0])
	if err != nil {
		return jobError(err)
	}

	stepStore := store.NewStepStore(a.provider)
	syncService := service.NewStepSyncService(stepStore)

	job, graph, err := a.loadJob(ctx, stepStore, syncService, def.Job)
	switch {
	case errors.Is(err, model.ErrJobNotFound) && a.simulate():
		if err := definition.Apply(graph, def); err != nil {
			return jobError(err)
		}
		renderAnalysis(out, graph, syncService.Analyze(graph))
		renderNewJob(out, def.Job, graph)
		return nil
	case errors.Is(err, model.ErrJobNotFound):
		job = model.Job{ID: utils.GenerateUUID(), Name: def.Job, Description: def.Description}
		if err := stepStore.CreateJob(ctx, job); err != nil {
			return jobError(err)
		}
		log.GetLogger().Info("Created job", log.String(log.LoggerKeyJobID, job.ID), log.String("name", job.Name))
	case err != nil:
		return jobError(err)
	}

	if err := definition.Apply(graph, def); err != nil {
		return jobError(err)
	}
	renderAnalysis(out, graph, syncService.Analyze(graph))

	report, err := syncService.Synchronize(ctx, job.ID, graph, service.SyncOptions{SimulateOnly: a.simulate()})
	if report != nil {
		renderSyncReport(out, def.Job, report)
	}
	if err != nil {
		return jobError(err)
	}
	return nil
}

func (a *app) runJobCheck(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)

	def, err := definition.LoadJobDefinition(args[0])
	if err != nil {
		return jobError(err)
	}

	stepStore := store.NewStepStore(a.provider)
	syncService := service.NewStepSyncService(stepStore)
	_, graph, err := a.loadJob(ctx, stepStore, syncService, def.Job)
	if err != nil && !errors.Is(err, model.ErrJobNotFound) {
		return jobError(err)
	}
	if err := definition.Apply(graph, def); err != nil {
		return jobError(err)
	}

	analysis := syncService.Analyze(graph)
	renderAnalysis(cmd.OutOrStdout(), graph, analysis)
	if !analysis.HasWarnings() {
		okColor.Fprintf(cmd.OutOrStdout(), "Job %s has no warnings\n", def.Job)
	}
	return nil
}

func (a *app) runJobShow(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)

	stepStore := store.NewStepStore(a.provider)
	syncService := service.NewStepSyncService(stepStore)
	job, graph, err := a.loadJob(ctx, stepStore, syncService, args[0])
	if err != nil {
		return jobError(err)
	}
	renderGraph(cmd.OutOrStdout(), job, graph)
	return nil
}

// loadJob looks a job up by name and loads its graph. A missing job yields an empty graph
// together with model.ErrJobNotFound, and any failure yields an empty graph.
func (a *app) loadJob(ctx context.Context, stepStore store.StepStoreInterface,
	syncService service.StepSyncServiceInterface, name string) (model.Job, *model.StepGraph, error) {
	job, err := stepStore.GetJobByName(ctx, name)
	if err != nil {
		return model.Job{Name: name}, model.NewStepGraph(), err
	}
	graph, err := syncService.LoadGraph(ctx, job.ID)
	if err != nil {
		return job, model.NewStepGraph(), err
	}
	return job, graph, nil
}

func jobError(err error) error {
	return &commandError{svcErr: service.ToServiceError(err)}
}
