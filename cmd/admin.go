package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/punchclock/internal/adapters/auth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAdminCmd(app *app) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator credentials",
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the token required to change rates over HTTP",
	}
	tokenCmd.AddCommand(newAdminTokenSetCmd(app), newAdminTokenClearCmd(app))

	adminCmd.AddCommand(tokenCmd)
	return adminCmd
}

func newAdminTokenSetCmd(app *app) *cobra.Command {
	var (
		value    string
		generate bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the administrator token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value = strings.TrimSpace(value)
			if generate {
				token, err := auth.NewAdminToken()
				if err != nil {
					return err
				}
				value = token
			}
			if value == "" {
				return errors.New("token value must not be empty")
			}

			key := app.config.Admin.TokenKey
			if err := app.secretStore.Put(cmd.Context(), key, value); err != nil {
				return fmt.Errorf("store administrator token: %w", err)
			}

			app.logger.Info("administrator token updated",
				zap.String("key", key),
				zap.String("fingerprint", auth.Fingerprint(value)),
			)
			if generate {
				return writeLine(cmd, value)
			}
			return writeLine(cmd, "Administrator token stored")
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Token value")
	cmd.Flags().BoolVar(&generate, "generate", false, "Generate a random token and print it")
	cmd.MarkFlagsOneRequired("value", "generate")
	cmd.MarkFlagsMutuallyExclusive("value", "generate")

	return cmd
}

func newAdminTokenClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored administrator token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := app.config.Admin.TokenKey
			if err := app.secretStore.Delete(cmd.Context(), key); err != nil {
				return fmt.Errorf("remove administrator token: %w", err)
			}

			app.logger.Info("administrator token removed", zap.String("key", key))
			return writeLine(cmd, "Administrator token removed")
		},
	}
}
