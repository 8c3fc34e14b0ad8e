package sentiment

import (
	"strings"
)

// Label is the coarse sentiment of an exchange.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Decision is the outcome of scoring one question/answer pair.
type Decision struct {
	Sentiment Label
	// Satisfaction is an estimate between 0 and 100.
	Satisfaction int
	Reason       string
}

var keywordBuckets = map[Label][]string{
	Positive: {
		"thank", "thanks", "great", "helpful", "perfect", "awesome", "appreciate", "love",
		"excellent", "clear", "makes sense", "gracias", "genial", "perfecto",
	},
	Negative: {
		"not helpful", "useless", "wrong", "confusing", "frustrat", "annoy", "doesn't work",
		"does not work", "can't find", "cannot find", "broken", "error", "terrible", "angry",
		"still waiting", "no response",
	},
}

// phrases in a reply that mean the assistant did not answer
var deflections = []string{
	"i don't know", "i do not know", "i'm not sure", "i am not sure", "unable to find",
	"no information", "couldn't find", "could not find", "please contact",
}

// Analyze estimates how satisfied the user is with response to query.
func Analyze(query, response string) Decision {
	user := scoreText(query)
	bot := strings.ToLower(strings.TrimSpace(response))

	satisfaction := 60
	if bot == "" {
		return Decision{Sentiment: Negative, Satisfaction: 20, Reason: "empty response"}
	}
	for _, phrase := range deflections {
		if strings.Contains(bot, phrase) {
			satisfaction -= 25
			break
		}
	}
	// 回答越充分得分越高，封顶 +15
	words := len(strings.Fields(bot))
	if words > 40 {
		satisfaction += 15
	} else if words > 15 {
		satisfaction += 8
	}

	satisfaction += 8 * (user[Positive] - user[Negative])
	satisfaction = clamp(satisfaction, 0, 100)

	label := Neutral
	reason := "no strong signal"
	switch {
	case satisfaction >= 70:
		label, reason = Positive, "user received a substantive answer"
	case satisfaction < 40:
		label, reason = Negative, "answer did not address the question"
	}
	return Decision{Sentiment: label, Satisfaction: satisfaction, Reason: reason}
}

func scoreText(text string) map[Label]int {
	normalized := strings.ToLower(strings.TrimSpace(text))
	scores := make(map[Label]int)
	if normalized == "" {
		return scores
	}
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label]++
			}
		}
	}
	return scores
}

// ParseLabel accepts a label in any case.
func ParseLabel(raw string) (Label, bool) {
	switch Label(strings.ToLower(strings.TrimSpace(raw))) {
	case Positive:
		return Positive, true
	case Neutral:
		return Neutral, true
	case Negative:
		return Negative, true
	default:
		return "", false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
