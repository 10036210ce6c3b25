// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package main implements the main entrypoint for the host IP discovery tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/siderolabs/ippopper/internal/config"
	"github.com/siderolabs/ippopper/internal/discovery"
	"github.com/siderolabs/ippopper/internal/external"
	"github.com/siderolabs/ippopper/internal/route"
	"github.com/siderolabs/ippopper/internal/scan"
	"github.com/siderolabs/ippopper/internal/version"
)

var rootCmdArgs struct {
	probeTarget string
	providers   []string

	cfg config.Config

	debug bool
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     version.Name,
	Short:   "Discover and classify the IP addresses of this host",
	Version: version.Tag,
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cmd.SilenceUsage = true // if the args are parsed fine, no need to show usage
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(cmd.Context(), cmd.OutOrStdout(), listCmdArgs.output, listCmdArgs.skipExternal)
	},
}

func initLogger() (*zap.Logger, error) {
	var loggerConfig zap.Config

	if rootCmdArgs.debug {
		loggerConfig = zap.NewDevelopmentConfig()
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		loggerConfig.Level.SetLevel(zap.DebugLevel)
	} else {
		loggerConfig = zap.NewProductionConfig()
		loggerConfig.Level.SetLevel(zap.InfoLevel)
	}

	// keep stdout for the command output
	loggerConfig.OutputPaths = []string{"stderr"}

	return loggerConfig.Build()
}

// withService builds the discovery service and passes it to f.
func withService(f func(svc *discovery.Service, logger *zap.Logger) error) error {
	logger, err := initLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer logger.Sync() //nolint:errcheck

	detector := route.NewDetector(rootCmdArgs.probeTarget, nil, logger.With(zap.String("component", "route_detector")))
	scanner := scan.NewScanner(scan.OSLister{}, detector, logger.With(zap.String("component", "scanner")))
	resolver := external.NewResolver(logger.With(zap.String("component", "external_resolver")),
		external.WithProviders(rootCmdArgs.providers...),
		external.WithRequestTimeout(rootCmdArgs.cfg.RequestTimeout),
	)

	return f(discovery.NewService(scanner, resolver, logger.With(zap.String("component", "discovery"))), logger)
}

func main() {
	if err := runCmd(); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}

func runCmd() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initFlags(cfg)

	return rootCmd.ExecuteContext(ctx)
}

func initFlags(cfg config.Config) {
	rootCmdArgs.cfg = cfg

	rootCmd.PersistentFlags().StringVar(&rootCmdArgs.probeTarget, "probe-target", cfg.ProbeTarget,
		"The host:port the primary route probe connects to. Nothing is sent to it.")
	rootCmd.PersistentFlags().StringSliceVar(&rootCmdArgs.providers, "provider", cfg.Providers,
		"External address provider URLs, queried in the given order.")
	rootCmd.PersistentFlags().DurationVar(&rootCmdArgs.cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout,
		"Timeout of a single external address provider request.")
	rootCmd.PersistentFlags().BoolVar(&rootCmdArgs.debug, "debug", cfg.Debug, "Enable debug logs.")

	rootCmd.Flags().StringVarP(&listCmdArgs.output, "output", "o", outputTable, "Output format, one of: table, json.")
	rootCmd.Flags().BoolVar(&listCmdArgs.skipExternal, "skip-external", false, "Do not resolve the external address.")

	listCmd.Flags().StringVarP(&listCmdArgs.output, "output", "o", outputTable, "Output format, one of: table, json.")
	listCmd.Flags().BoolVar(&listCmdArgs.skipExternal, "skip-external", false, "Do not resolve the external address.")

	serveCmd.Flags().StringVar(&serveCmdArgs.listenAddress, "listen", cfg.ListenAddress, "The address the API listens on.")

	rootCmd.AddCommand(primaryCmd, listCmd, serveCmd)
}
