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

// Package service synchronizes the principals granted access to a proxy.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sqlagent/jobsync/internal/proxy/model"
	"github.com/sqlagent/jobsync/internal/proxy/store"
	"github.com/sqlagent/jobsync/internal/system/error/syncerror"
	"github.com/sqlagent/jobsync/internal/system/log"
	"github.com/sqlagent/jobsync/internal/system/utils"

	"go.uber.org/multierr"
)

const loggerComponentName = "PrincipalSyncService"

// SyncOptions controls a principal synchronization.
type SyncOptions struct {
	// SimulateOnly computes the changes without issuing them.
	SimulateOnly bool
}

// CategoryResult is the outcome of one principal category.
type CategoryResult struct {
	Category model.PrincipalCategory
	// Removed and Added hold the principals that were revoked and granted, or would be when simulated.
	Removed []string
	Added   []string
	Err     error
}

// PrincipalReport is the outcome of a principal synchronization.
type PrincipalReport struct {
	ProxyID    string
	Simulated  bool
	Categories []CategoryResult
}

// Changed reports whether any category had principals to add or remove.
func (r *PrincipalReport) Changed() bool {
	for _, result := range r.Categories {
		if len(result.Added) > 0 || len(result.Removed) > 0 {
			return true
		}
	}
	return false
}

// PrincipalSyncServiceInterface defines the interface for the principal synchronization service.
type PrincipalSyncServiceInterface interface {
	Synchronize(ctx context.Context, proxyID string, desired model.PrincipalSet,
		opts SyncOptions) (*PrincipalReport, error)
}

// PrincipalSyncService is the default implementation of the PrincipalSyncServiceInterface.
type PrincipalSyncService struct {
	store store.ProxyStoreInterface
}

// NewPrincipalSyncService creates a new instance of PrincipalSyncService.
func NewPrincipalSyncService(proxyStore store.ProxyStoreInterface) PrincipalSyncServiceInterface {
	return &PrincipalSyncService{store: proxyStore}
}

// Synchronize brings the principals of every category in line with the desired set.
//
// Each category is handled on its own: a failure stops the remaining operations of that
// category only. The errors of all failed categories are combined in the returned error.
func (s *PrincipalSyncService) Synchronize(ctx context.Context, proxyID string, desired model.PrincipalSet,
	opts SyncOptions) (*PrincipalReport, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyProxyID, proxyID))

	wanted := make(map[model.PrincipalCategory][]string, len(model.Categories()))
	for _, category := range model.Categories() {
		labels, err := normalize(category, desired.Get(category))
		if err != nil {
			return nil, err
		}
		wanted[category] = labels
	}

	report := &PrincipalReport{ProxyID: proxyID, Simulated: opts.SimulateOnly}
	var errs error
	for _, category := range model.Categories() {
		result := s.syncCategory(ctx, proxyID, category, wanted[category], opts.SimulateOnly)
		if result.Err != nil {
			logger.Error("Principal category synchronization failed",
				log.String("category", string(category)), log.Error(result.Err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", category, result.Err))
		}
		report.Categories = append(report.Categories, result)
	}

	logger.Debug("Principal synchronization finished", log.Bool("simulated", opts.SimulateOnly),
		log.Bool("changed", report.Changed()), log.Int("failedCategories", len(multierr.Errors(errs))))
	return report, errs
}

func (s *PrincipalSyncService) syncCategory(ctx context.Context, proxyID string,
	category model.PrincipalCategory, desired []string, simulate bool) CategoryResult {
	result := CategoryResult{Category: category}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	existing, err := s.store.ListPrincipals(ctx, proxyID, category)
	if err != nil {
		result.Err = &syncerror.TransportError{Op: "list principals", Err: err}
		return result
	}

	toAdd, toRemove, changed := utils.DiffOrderedSets(existing, desired)
	if !changed {
		return result
	}
	if simulate {
		result.Removed, result.Added = toRemove, toAdd
		return result
	}

	for _, name := range toRemove {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}
		if err := s.store.RemovePrincipal(ctx, proxyID, category, name); err != nil {
			result.Err = classify("remove principal", name, err)
			return result
		}
		result.Removed = append(result.Removed, name)
	}
	for _, name := range toAdd {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}
		if err := s.store.AddPrincipal(ctx, proxyID, category, name); err != nil {
			result.Err = classify("add principal", name, err)
			return result
		}
		result.Added = append(result.Added, name)
	}
	return result
}

// normalize sorts the desired principals of a category and drops duplicates.
func normalize(category model.PrincipalCategory, labels []string) ([]string, error) {
	if slices.Contains(labels, "") {
		return nil, syncerror.NewValidationError(string(category), "principal name must not be empty")
	}
	out := slices.Clone(labels)
	slices.Sort(out)
	return slices.Compact(out), nil
}

func classify(op, name string, err error) error {
	if errors.Is(err, model.ErrPrincipalNotFound) {
		return &syncerror.ConflictError{Identity: name, Reason: op, Err: err}
	}
	return &syncerror.TransportError{Op: op + " " + name, Err: err}
}
