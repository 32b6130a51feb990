package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/punchclock/internal/adapters/httpapi"
	"github.com/bnema/punchclock/internal/application"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRateCmd(app *app) *cobra.Command {
	rateCmd := &cobra.Command{
		Use:   "rate",
		Short: "Manage hourly rates per role",
	}

	rateCmd.AddCommand(
		newRateSetCmd(app),
		newRateListCmd(app),
		newRateResolveCmd(app),
	)

	return rateCmd
}

func newRateSetCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <role> <rate>",
		Short: "Create or update the hourly rate of a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("%w: rate %q is not a number", domain.ErrInvalidInput, args[1])
			}

			result, err := app.service.SetRate(cmd.Context(), application.SetRateCommand{
				Role: domain.RoleName(args[0]),
				Rate: rate,
			})
			if err != nil {
				return err
			}

			if wantsJSON(cmd) {
				return writeJSON(cmd, httpapi.NewRateChangeView(result))
			}
			return writeLine(cmd, result.String())
		},
	}

	addJSONFlag(cmd)
	return cmd
}

func newRateListCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured role rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := app.service.Board(cmd.Context())
			if err != nil {
				return err
			}

			if wantsJSON(cmd) {
				return writeJSON(cmd, httpapi.NewRatesView(board.Rates))
			}
			if len(board.Rates) == 0 {
				return writeLine(cmd, "No role rates configured.")
			}

			width := 0
			for _, rate := range board.Rates {
				width = max(width, len(rate.Role))
			}
			for _, rate := range board.Rates {
				if err := writeLine(cmd, fmt.Sprintf("%-*s  %s/h", width, rate.Role, application.FormatRate(rate.Rate))); err != nil {
					return err
				}
			}
			return nil
		},
	}

	addJSONFlag(cmd)
	return cmd
}

func newRateResolveCmd(app *app) *cobra.Command {
	var roles []string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the rate a member with the given roles would be paid",
		Long:  "Roles are checked in the order given, highest priority first; the first one with a configured rate wins.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolution, err := app.service.ResolveRate(cmd.Context(), roleNames(roles))
			if err != nil {
				return err
			}

			if wantsJSON(cmd) {
				return writeJSON(cmd, httpapi.NewResolutionView(resolution))
			}
			return writeLine(cmd, describeResolution(resolution))
		},
	}

	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role held by the member, highest priority first (repeatable)")
	addJSONFlag(cmd)
	return cmd
}

func describeResolution(resolution domain.RateResolution) string {
	if !resolution.Matched {
		return fmt.Sprintf("%s/h (no configured role matched)", application.FormatRate(resolution.Rate))
	}

	return fmt.Sprintf("%s/h (%s)", application.FormatRate(resolution.Rate), resolution.Role)
}

func roleNames(roles []string) []domain.RoleName {
	names := make([]domain.RoleName, 0, len(roles))
	for _, role := range roles {
		names = append(names, domain.RoleName(role))
	}
	return names
}
