package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/analytics"
)

// ErrUnknownTimeframe is returned for a timeframe other than today, weekly, monthly or yearly.
var ErrUnknownTimeframe = errors.New("timeframe must be one of today, weekly, monthly, yearly")

// Source is where session logs come from.
type Source interface {
	SessionLogs(ctx context.Context, timeframe analytics.Timeframe) (analytics.SessionLogs, error)
}

// Dashboard loads the admin analytics view.
type Dashboard struct {
	source Source
	logger zerolog.Logger
}

func NewDashboard(source Source) *Dashboard {
	return &Dashboard{source: source, logger: logging.Component("analytics")}
}

// Load fetches the snapshot for timeframe. On failure it returns the empty
// snapshot alongside the error so the caller can still render something.
func (d *Dashboard) Load(ctx context.Context, timeframe string) (analytics.SessionLogs, error) {
	tf, ok := analytics.ParseTimeframe(timeframe)
	if !ok {
		return analytics.Empty(), errors.Wrap(ErrUnknownTimeframe, timeframe)
	}

	logs, err := d.source.SessionLogs(ctx, tf)
	if err != nil {
		d.logger.Warn().Err(err).Str("timeframe", string(tf)).Msg("failed to fetch analytics")
		return analytics.Empty(), err
	}
	if logs.Conversations == nil {
		logs.Conversations = []analytics.Conversation{}
	}
	return logs, nil
}

// Watch reloads the snapshot every interval until ctx ends, handing each result to fn.
func (d *Dashboard) Watch(ctx context.Context, timeframe string, interval time.Duration, fn func(analytics.SessionLogs, error)) error {
	if interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		fn(d.Load(ctx, timeframe))
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// CategoryCount is one bar of the category chart.
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryDistribution orders categories by count, then by name.
func CategoryDistribution(logs analytics.SessionLogs) []CategoryCount {
	counts := logs.Categories
	if len(counts) == 0 {
		counts = make(map[string]int)
		for _, conv := range logs.Conversations {
			counts[conv.Category]++
		}
	}

	out := make([]CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, CategoryCount{Category: category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// SentimentShares returns whole-number percentages of positive, neutral and
// negative feedback. All zero when there is no feedback.
func SentimentShares(counts analytics.SentimentCounts) (positive, neutral, negative int) {
	total := counts.Total()
	if total == 0 {
		return 0, 0, 0
	}
	pct := func(n int) int {
		return int(math.Round(float64(n) * 100 / float64(total)))
	}
	return pct(counts.Positive), pct(counts.Neutral), pct(counts.Negative)
}
