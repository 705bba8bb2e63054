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

// Package cli implements the jobsync command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sqlagent/jobsync/internal/system/config"
	"github.com/sqlagent/jobsync/internal/system/database/provider"
	"github.com/sqlagent/jobsync/internal/system/error/serviceerror"
	"github.com/sqlagent/jobsync/internal/system/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix is the prefix of the environment variables that override flags.
const EnvPrefix = "JOBSYNC"

// app holds the state shared by the commands of one invocation.
type app struct {
	viper    *viper.Viper
	cfg      *config.Config
	provider provider.DBProviderInterface
}

// commandError carries the user facing error of a failed command.
type commandError struct {
	svcErr *serviceerror.ServiceError
}

func (e *commandError) Error() string {
	return e.svcErr.String()
}

// NewRootCmd builds the jobsync command tree.
func NewRootCmd() *cobra.Command {
	a := &app{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "jobsync",
		Short: "Synchronize agent jobs and proxies with a job store",
		Long: `jobsync applies job and proxy definitions to a remote job store.

Job steps are matched by name. Reordering steps recreates every step of the job,
other edits are written as minimal changes. Use --simulate to print the planned
operations without changing the store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to the configuration file")
	flags.String("home", "", "directory relative database paths are resolved against (default is the working directory)")
	flags.Bool("simulate", false, "print the planned operations without issuing them")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	a.viper.SetEnvPrefix(EnvPrefix)
	a.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.viper.AutomaticEnv()
	if err := a.viper.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}

	rootCmd.AddCommand(a.initDBCmd())
	rootCmd.AddCommand(a.jobCmd())
	rootCmd.AddCommand(a.proxyCmd())
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	defer log.Sync()

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var cmdErr *commandError
		if errors.As(err, &cmdErr) {
			renderError(rootCmd.ErrOrStderr(), cmdErr.svcErr)
		} else {
			fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		}
		return 1
	}
	return 0
}

// initialize resolves the configuration from the config file, flags and environment.
func (a *app) initialize() error {
	home := a.viper.GetString("home")
	if home == "" {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		home = dir
	}

	cfg := config.DefaultConfig()
	if path := a.viper.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}
	if a.viper.IsSet("simulate") {
		cfg.Sync.SimulateOnly = a.viper.GetBool("simulate")
	}
	if level := a.viper.GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if err := log.SetLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	a.cfg = cfg
	a.provider = provider.NewDBProvider(cfg.Database, home)

	log.GetLogger().Debug("Configuration resolved", log.String("home", home),
		log.String("database", cfg.Database.Type), log.Bool("simulate", cfg.Sync.SimulateOnly))
	return nil
}

// runE wraps a command so that the database provider is closed whether the command fails or not.
func (a *app) runE(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = multierr.Append(err, a.close())
		}()
		return run(cmd, args)
	}
}

func (a *app) close() error {
	if a.provider == nil {
		return nil
	}
	err := a.provider.Close()
	a.provider = nil
	return err
}

func (a *app) simulate() bool {
	return a.cfg.Sync.SimulateOnly
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
