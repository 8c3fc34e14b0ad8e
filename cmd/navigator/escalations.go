package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/learningnavigator/navigator/internal/service/escalation"
)

func newEscalateCmd() *cobra.Command {
	var email, response string
	cmd := &cobra.Command{
		Use:   "escalate <question...>",
		Short: "Ask a person to follow up on a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := appFrom(cmd).api.Escalate(cmd.Context(), escalation.Request{
				Email:         email,
				Question:      strings.Join(args, " "),
				AgentResponse: response,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Escalated as %s. An administrator will follow up.\n", q.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "where to reach you")
	cmd.Flags().StringVar(&response, "response", "", "the assistant answer that did not help")
	return cmd
}

func newEscalationsCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "escalations",
		Short: "List escalated queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter escalation.Status
			if status != "" {
				var ok bool
				if filter, ok = escalation.ParseStatus(status); !ok {
					return errors.Errorf("unknown status %q", status)
				}
			}
			queries, err := appFrom(cmd).api.Escalations(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printEscalations(cmd.OutOrStdout(), queries)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "pending, in_progress or resolved")
	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> <status>",
		Short: "Move an escalated query to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := escalation.ParseStatus(args[1])
			if !ok {
				return errors.Errorf("unknown status %q", args[1])
			}
			q, err := appFrom(cmd).api.UpdateEscalation(cmd.Context(), args[0], s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", q.ID, q.Status)
			return nil
		},
	})
	return cmd
}
