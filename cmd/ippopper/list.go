// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/siderolabs/gen/xslices"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/address"
	"github.com/siderolabs/ippopper/internal/discovery"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var listCmdArgs struct {
	output       string
	skipExternal bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all addresses of this host, including the external one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(cmd.Context(), cmd.OutOrStdout(), listCmdArgs.output, listCmdArgs.skipExternal)
	},
}

func runList(ctx context.Context, w io.Writer, output string, skipExternal bool) error {
	if output != outputTable && output != outputJSON {
		return fmt.Errorf("unsupported output format %q", output)
	}

	return withService(func(svc *discovery.Service, _ *zap.Logger) error {
		fetch := svc.AllAddresses
		if skipExternal {
			fetch = svc.LocalAddresses
		}

		records, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("failed to get addresses: %w", err)
		}

		return writeRecords(w, output, records)
	})
}

func writeRecords(w io.Writer, output string, records []address.Record) error {
	if output == outputJSON {
		if records == nil {
			records = []address.Record{}
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(records)
	}

	_, err := fmt.Fprintln(w, renderTable(records))

	return err
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	primaryStyle = cellStyle.Foreground(lipgloss.Color("10"))
)

func renderTable(records []address.Record) string {
	rows := xslices.Map(records, func(r address.Record) []string {
		return []string{r.Address, string(r.Category), r.InterfaceName, r.MACAddress, strconv.FormatBool(r.IsPrimary)}
	})

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ADDRESS", "CATEGORY", "INTERFACE", "MAC", "PRIMARY").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(records) && records[row].IsPrimary:
				return primaryStyle
			default:
				return cellStyle
			}
		}).
		String()
}
