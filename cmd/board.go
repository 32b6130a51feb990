package cmd

import (
	"fmt"

	"github.com/bnema/punchclock/internal/adapters/httpapi"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show configured rates and who is clocked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := app.service.Board(cmd.Context())
			if err != nil {
				return err
			}

			if wantsJSON(cmd) {
				return writeJSON(cmd, httpapi.NewBoardView(snapshot))
			}

			rendered, err := app.boardRenderer(snapshot)
			if err != nil {
				return fmt.Errorf("render board: %w", err)
			}
			return writeLine(cmd, rendered)
		},
	}

	addJSONFlag(cmd)
	return cmd
}
