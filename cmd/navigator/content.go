package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/learningnavigator/navigator/internal/model/analytics"
)

func newTranslateCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate <text...>",
		Short: "Translate text through the translation service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			text := strings.Join(args, " ")
			translated := a.translator.TranslateText(cmd.Context(), text, strings.ToLower(from), strings.ToLower(to))
			fmt.Fprintln(cmd.OutOrStdout(), translated)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "en", "source language")
	cmd.Flags().StringVar(&to, "to", "es", "target language")
	return cmd
}

func newRecommendationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommendations",
		Short: "Show recommendations for your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := appFrom(cmd).recommendations().Load(cmd.Context())
			if err != nil {
				return err
			}
			printRecommendations(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newFeedbackCmd() *cobra.Command {
	var messageID, sessionID string
	var positive, negative bool
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Rate an answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if positive == negative {
				return errors.New("pass exactly one of --positive or --negative")
			}
			label := analytics.SentimentNegative
			if positive {
				label = analytics.SentimentPositive
			}

			appFrom(cmd).api.SendFeedback(cmd.Context(), analytics.Feedback{
				MessageID: messageID,
				SessionID: sessionID,
				Feedback:  label,
			})
			fmt.Fprintln(cmd.OutOrStdout(), "Thanks for the feedback.")
			return nil
		},
	}
	cmd.Flags().StringVar(&messageID, "message-id", "", "id of the rated answer")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "chat session id")
	cmd.Flags().BoolVar(&positive, "positive", false, "thumbs up")
	cmd.Flags().BoolVar(&negative, "negative", false, "thumbs down")
	_ = cmd.MarkFlagRequired("message-id")
	_ = cmd.MarkFlagRequired("session-id")
	return cmd
}

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List knowledge base documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listing, err := appFrom(cmd).api.ListFiles(cmd.Context())
			if err != nil {
				return err
			}
			printFiles(cmd.OutOrStdout(), listing)
			return nil
		},
	}
}
