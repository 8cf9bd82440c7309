package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cp",
		Short:         "Care partner CLI: follow diabetes device data for shared accounts",
		Long:          "cp signs in to the backend, polls device telemetry for every account shared with you, and shows a live per-account summary (glucose, basal, insulin and carbs on board).",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newFollowCmd(app),
		newInvitationsCmd(app),
	)

	return rootCmd
}
