package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/learningnavigator/navigator/internal/model/analytics"
	"github.com/learningnavigator/navigator/internal/model/chat"
	chatservice "github.com/learningnavigator/navigator/internal/service/chat"
)

const chatHelp = `Type a question and press enter.
  /up, /down   rate the last answer
  /history     show this conversation
  /quit        leave`

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), a, d, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			d, err := a.dispatcher()
			if err != nil {
				return err
			}

			block, err := d.Send(cmd.Context(), chatservice.NewSession(), strings.Join(args, " "))
			if errors.Is(err, chatservice.ErrEmptyQuery) {
				return err
			}
			printBlock(cmd.OutOrStdout(), block)
			return err
		},
	}
}

func runChat(ctx context.Context, a *app, d *chatservice.Dispatcher, in io.Reader, out io.Writer) error {
	sess := chatservice.NewSession()
	fmt.Fprintln(out, chatHelp)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/history":
			for _, block := range sess.Log().Blocks() {
				printBlock(out, block)
			}
			continue
		case "/up", "/down":
			rate(ctx, a, sess, line == "/up", out)
			continue
		}

		block, err := d.Send(ctx, sess, line)
		if errors.Is(err, chatservice.ErrQueryInFlight) {
			fmt.Fprintln(out, "Still waiting for the previous answer.")
			continue
		}
		printBlock(out, block)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// rate sends feedback for the last assistant reply.
func rate(ctx context.Context, a *app, sess *chatservice.Session, positive bool, out io.Writer) {
	last, ok := sess.Log().Last()
	if !ok || last.Sender != chat.SenderBot || last.Status != chat.StatusReceived {
		fmt.Fprintln(out, "Nothing to rate yet.")
		return
	}

	label := analytics.SentimentNegative
	if positive {
		label = analytics.SentimentPositive
	}
	a.api.SendFeedback(ctx, analytics.Feedback{MessageID: last.ID, SessionID: sess.ID, Feedback: label})
	fmt.Fprintln(out, "Thanks for the feedback.")
}
