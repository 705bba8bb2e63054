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

	"github.com/sqlagent/jobsync/internal/system/database/schema"

	"github.com/spf13/cobra"
)

func (a *app) initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the job store tables",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			dbClient, err := a.provider.GetDBClient(ctx)
			if err != nil {
				return err
			}
			if err := schema.Apply(ctx, dbClient); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job store initialized (%d statements)\n", len(schema.Statements()))
			return nil
		}),
	}
}
