package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "navigator",
		Short:         "Learning Navigator: chat with the MHFA training assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
	}

	root.AddCommand(
		newChatCmd(),
		newAskCmd(),
		newGuestCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newLanguageCmd(),
		newProfileCmd(),
		newTranslateCmd(),
		newRecommendationsCmd(),
		newAnalyticsCmd(),
		newFeedbackCmd(),
		newFilesCmd(),
		newDashboardCmd(),
		newEscalateCmd(),
		newEscalationsCmd(),
	)
	return root
}
