package cmd

import "github.com/spf13/cobra"

func Execute() error {
	rootCmd, cleanup := newRootCmd()
	defer cleanup()

	return rootCmd.Execute()
}

func newRootCmd() (*cobra.Command, func()) {
	rootCmd := &cobra.Command{
		Use:           "punch",
		Short:         "punch: track member work sessions and pay by role",
		Long:          "punch keeps an hourly rate per role, clocks members in and out, and settles each session's pay from the rate of the member's highest-priority configured role.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() {}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRateCmd(app),
		newSessionCmd(app),
		newBoardCmd(app),
		newAdminCmd(app),
		newServeCmd(app),
	)

	return rootCmd, func() { _ = app.Close() }
}
