package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/learningnavigator/navigator/internal/model/analytics"
	"github.com/learningnavigator/navigator/internal/model/chat"
	"github.com/learningnavigator/navigator/internal/model/document"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	analyticsservice "github.com/learningnavigator/navigator/internal/service/analytics"
	"github.com/learningnavigator/navigator/internal/service/escalation"
)

func printBlock(w io.Writer, block chat.MessageBlock) {
	switch {
	case block.Sender == chat.SenderUser:
		fmt.Fprintf(w, "you: %s\n", block.Content)
	case block.Status == chat.StatusError:
		fmt.Fprintf(w, "! %s\n", block.Content)
	default:
		fmt.Fprintf(w, "navigator: %s\n", block.Content)
		for i, ref := range block.References() {
			fmt.Fprintf(w, "  [%d] %s <%s>\n", i+1, ref.Title, ref.Source)
		}
	}
}

func printRecommendations(w io.Writer, resp recommend.Response) {
	fmt.Fprintf(w, "Recommendations for %s\n", resp.Role)
	for _, action := range resp.Recommendations.QuickActions {
		fmt.Fprintf(w, "\n%s: %s\n", action.Title, action.Description)
		for _, q := range action.Queries {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
	if topics := resp.Recommendations.SuggestedTopics; len(topics) > 0 {
		fmt.Fprintf(w, "\nSuggested topics: %s\n", strings.Join(topics, ", "))
	}
	if len(resp.Recommendations.RecentUpdates) > 0 {
		fmt.Fprintln(w, "\nRecent updates:")
		for _, u := range resp.Recommendations.RecentUpdates {
			fmt.Fprintf(w, "  - %s\n", u)
		}
	}
}

// maxListedConversations limits the conversation table in the terminal.
const maxListedConversations = 10

func printSessionLogs(w io.Writer, logs analytics.SessionLogs) {
	if logs.Timeframe != "" {
		fmt.Fprintf(w, "Timeframe: %s (%s to %s)\n", logs.Timeframe, logs.StartDate, logs.EndDate)
	}
	fmt.Fprintf(w, "Users: %d  Avg satisfaction: %.1f\n", logs.UserCount, logs.AvgSatisfaction)

	pos, neu, neg := analyticsservice.SentimentShares(logs.Sentiment)
	fmt.Fprintf(w, "Feedback: %d%% positive, %d%% neutral, %d%% negative (%d total)\n", pos, neu, neg, logs.Sentiment.Total())

	if dist := analyticsservice.CategoryDistribution(logs); len(dist) > 0 {
		fmt.Fprintln(w, "Categories:")
		for _, c := range dist {
			fmt.Fprintf(w, "  %-32s %d\n", c.Category, c.Count)
		}
	}

	if len(logs.Conversations) > 0 {
		fmt.Fprintln(w, "Recent conversations:")
		for i, conv := range logs.Conversations {
			if i == maxListedConversations {
				fmt.Fprintf(w, "  ... %d more\n", len(logs.Conversations)-i)
				break
			}
			fmt.Fprintf(w, "  %s [%s/%s] %s\n", conv.Timestamp, conv.Category, conv.Sentiment, conv.Query)
		}
	}
}

func printFiles(w io.Writer, listing document.Listing) {
	if len(listing.Files) == 0 {
		fmt.Fprintln(w, "No documents.")
		return
	}
	for _, f := range listing.Files {
		fmt.Fprintf(w, "%-40s %8d  %s\n", f.Key, f.Size, f.LastModified)
	}
}

func printEscalations(w io.Writer, queries []escalation.Query) {
	if len(queries) == 0 {
		fmt.Fprintln(w, "No escalated queries.")
		return
	}
	for _, q := range queries {
		who := q.UserEmail
		if who == "" {
			who = "(no email)"
		}
		fmt.Fprintf(w, "%s  %-11s %s  %s\n", q.ID, q.Status, q.CreatedAt.Format("2006-01-02 15:04"), who)
		fmt.Fprintf(w, "    %s\n", q.Question)
	}
}
