package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/bnema/punchclock/internal/adapters/httpapi"
	"github.com/bnema/punchclock/internal/application"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *app) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Clock members in and out",
	}

	sessionCmd.AddCommand(
		newSessionStartCmd(app),
		newSessionEndCmd(app),
		newSessionStatusCmd(app),
	)

	return sessionCmd
}

func newSessionStartCmd(app *app) *cobra.Command {
	var (
		member string
		roles  []string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Clock a member in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.service.StartSession(cmd.Context(), application.StartSessionCommand{
				Member: domain.MemberID(member),
				Roles:  roleNames(roles),
			})
			if err != nil {
				return err
			}

			if wantsJSON(cmd) {
				return writeJSON(cmd, httpapi.NewStartView(result))
			}
			return writeLine(cmd, result.String())
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "Member identifier")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role held by the member, highest priority first (repeatable)")
	addJSONFlag(cmd)
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

func newSessionEndCmd(app *app) *cobra.Command {
	var (
		member string
		roles  []string
	)

	cmd := &cobra.Command{
		Use:   "end",
		Short: "Clock a member out and print the pay receipt",
		Long:  "The rate is resolved from the roles given now, at clock-out time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.service.EndSession(cmd.Context(), application.EndSessionCommand{
				Member: domain.MemberID(member),
				Roles:  roleNames(roles),
			})
			if err != nil && !errors.Is(err, domain.ErrDataIntegrity) {
				return err
			}

			// An inconsistent start still closes the session; show the
			// zero-pay receipt before reporting the fault.
			if writeErr := writeEndResult(cmd, app, result); writeErr != nil {
				return errors.Join(err, writeErr)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "Member identifier")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role held by the member, highest priority first (repeatable)")
	addJSONFlag(cmd)
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

func writeEndResult(cmd *cobra.Command, app *app, result application.EndResult) error {
	if wantsJSON(cmd) {
		return writeJSON(cmd, httpapi.NewEndView(result))
	}

	rendered, err := app.receiptRender(result)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	if err := writeLine(cmd, rendered); err != nil {
		return err
	}
	return writeLine(cmd, result.String())
}

func newSessionStatusCmd(app *app) *cobra.Command {
	var member string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a member is clocked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := app.service.SessionStatus(cmd.Context(), domain.MemberID(member))
			if err != nil {
				return err
			}

			if wantsJSON(cmd) {
				return writeJSON(cmd, httpapi.NewSessionView(status))
			}
			return writeLine(cmd, describeStatus(status))
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "Member identifier")
	addJSONFlag(cmd)
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

func describeStatus(status application.SessionStatus) string {
	switch {
	case !status.Active:
		return fmt.Sprintf("Member %s is not clocked in", status.Member)
	case status.StartedAt.IsZero():
		return fmt.Sprintf("Member %s is clocked in with an unreadable start time", status.Member)
	default:
		return fmt.Sprintf("Member %s clocked in at %s (%s ago)",
			status.Member,
			status.StartedAt.Format(time.RFC3339),
			application.FormatElapsed(status.Elapsed),
		)
	}
}
