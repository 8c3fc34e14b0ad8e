package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/learningnavigator/navigator/internal/model/analytics"
	"github.com/learningnavigator/navigator/internal/model/document"
)

func newAnalyticsCmd() *cobra.Command {
	var timeframe string
	var watch time.Duration
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show the admin analytics snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard := appFrom(cmd).dashboard()
			out := cmd.OutOrStdout()

			if watch <= 0 {
				logs, err := dashboard.Load(cmd.Context(), timeframe)
				if err != nil {
					return err
				}
				printSessionLogs(out, logs)
				return nil
			}

			err := dashboard.Watch(cmd.Context(), timeframe, watch, func(logs analytics.SessionLogs, err error) {
				fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
				if err != nil {
					fmt.Fprintf(out, "Failed to load analytics: %v\n", err)
				}
				printSessionLogs(out, logs)
			})
			if cmd.Context().Err() != nil {
				// 用户中断
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&timeframe, "timeframe", string(analytics.Today), "today, weekly, monthly or yearly")
	cmd.Flags().DurationVar(&watch, "watch", 0, "refresh every interval until interrupted")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	var timeframe string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show analytics and knowledge base documents together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)

			var logs analytics.SessionLogs
			var listing document.Listing
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				logs, err = a.dashboard().Load(ctx, timeframe)
				return err
			})
			g.Go(func() error {
				var err error
				listing, err = a.api.ListFiles(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSessionLogs(out, logs)
			fmt.Fprintln(out)
			printFiles(out, listing)
			return nil
		},
	}
	cmd.Flags().StringVar(&timeframe, "timeframe", string(analytics.Today), "today, weekly, monthly or yearly")
	return cmd
}
