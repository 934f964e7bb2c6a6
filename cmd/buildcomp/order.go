// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/buildcomp/buildcomp/internal/collect"

	"github.com/spf13/cobra"
)

func newOrderCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Show the order components are collected in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.loadSettings(ctx, flags)
			if err != nil {
				return app.fail(cmd, err)
			}

			found, ok, err := app.discover(ctx, cmd, st)
			if err != nil || !ok {
				return err
			}

			order, err := collect.New(found.Manifests, collect.WithLogger(app.logger)).Order()
			if err != nil {
				return app.fail(cmd, err)
			}
			for i, id := range order {
				_, _ = fmt.Fprintf(app.stdout, "%d. %s\n", i+1, id)
			}
			return nil
		},
	}
}
