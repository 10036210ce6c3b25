// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/discovery"
	"github.com/siderolabs/ippopper/internal/server"
)

var serveCmdArgs struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the discovered addresses over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *discovery.Service, logger *zap.Logger) error {
			srv := server.New(serveCmdArgs.listenAddress, svc, logger.With(zap.String("component", "server")))

			if err := srv.Run(cmd.Context()); err != nil {
				return fmt.Errorf("failed to run server: %w", err)
			}

			return nil
		})
	},
}
