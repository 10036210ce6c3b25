// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/discovery"
)

var primaryCmd = &cobra.Command{
	Use:   "primary",
	Short: "Print the local address used for outbound traffic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *discovery.Service, _ *zap.Logger) error {
			primary, err := svc.PrimaryLocalAddress(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get primary address: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), primary)

			return err
		})
	},
}
