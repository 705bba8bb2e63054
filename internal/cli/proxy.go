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
	"errors"

	"github.com/sqlagent/jobsync/internal/proxy/definition"
	"github.com/sqlagent/jobsync/internal/proxy/model"
	"github.com/sqlagent/jobsync/internal/proxy/service"
	"github.com/sqlagent/jobsync/internal/proxy/store"
	"github.com/sqlagent/jobsync/internal/system/log"
	"github.com/sqlagent/jobsync/internal/system/utils"

	"github.com/spf13/cobra"
)

func (a *app) proxyCmd() *cobra.Command {
	proxyCmd := &cobra.Command{
		Use:   "proxy",
		Short: "Manage proxy accounts",
	}
	proxyCmd.AddCommand(&cobra.Command{
		Use:   "apply <definition.yaml>",
		Short: "Synchronize the principals of a proxy with its definition",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runE(a.runProxyApply),
	})
	return proxyCmd
}

func (a *app) runProxyApply(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)

	def, err := definition.LoadProxyDefinition(args[0])
	if err != nil {
		return proxyError(err)
	}
	desired, err := def.PrincipalSet()
	if err != nil {
		return proxyError(err)
	}

	proxyStore := store.NewProxyStore(a.provider)
	proxy, err := proxyStore.GetProxyByName(ctx, def.Proxy)
	switch {
	case errors.Is(err, model.ErrProxyNotFound) && a.simulate():
		// Nothing is granted to a proxy that does not exist yet.
	case errors.Is(err, model.ErrProxyNotFound):
		proxy = model.Proxy{ID: utils.GenerateUUID(), Name: def.Proxy, CredentialName: def.Credential}
		if err := proxyStore.CreateProxy(ctx, proxy); err != nil {
			return proxyError(err)
		}
		log.GetLogger().Info("Created proxy", log.String(log.LoggerKeyProxyID, proxy.ID),
			log.String("name", proxy.Name))
	case err != nil:
		return proxyError(err)
	}

	syncService := service.NewPrincipalSyncService(proxyStore)
	report, err := syncService.Synchronize(ctx, proxy.ID, desired, service.SyncOptions{SimulateOnly: a.simulate()})
	if report != nil {
		renderPrincipalReport(cmd.OutOrStdout(), def.Proxy, report)
	}
	if err != nil {
		return proxyError(err)
	}
	return nil
}

func proxyError(err error) error {
	return &commandError{svcErr: service.ToServiceError(err)}
}
