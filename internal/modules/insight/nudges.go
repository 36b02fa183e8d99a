package insight

import (
	"context"
	"strings"
)

// TextGenerator is the optional generative-text capability consumed by the
// nudge synthesizer. Implementations are expected to bound the round trip
// with their own timeout; absence (a nil TextGenerator) and failure are both
// normal conditions.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

const (
	nudgeMaxTokens   = 200
	nudgeTemperature = 0.7
)

// genericNudges pads the rule-based list up to three messages, in this order.
var genericNudges = []string{
	"Ask discovery questions",
	"Confirm understanding regularly",
	"Focus on customer value",
	"Use customer's name more often",
	"Summarize key points clearly",
}

// SynthesizeNudges produces 1-3 short coaching messages for a call. When a
// generator is configured it is tried first; on error, timeout or an unusable
// response the deterministic rule-based messages are used instead, without
// surfacing the failure. Every message is hard-cut to 40 characters.
func SynthesizeNudges(ctx context.Context, transcript string, sentiment, talkRatio float64, gen TextGenerator) (nudges []string) {
	defer func() {
		if r := recover(); r != nil {
			nudges = []string{
				"Focus on active listening",
				"Ask more open questions",
				"Empathize with customer needs",
			}
		}
	}()

	if gen != nil {
		prompt := buildCoachingPrompt(transcript, sentiment, talkRatio)
		raw, err := gen.GenerateText(ctx, prompt, nudgeMaxTokens, nudgeTemperature)
		if err == nil {
			nudges = parseNudgeLines(raw)
		}
	}

	if len(nudges) == 0 {
		nudges = ruleBasedNudges(sentiment, talkRatio)
	}

	if len(nudges) > maxNudges {
		nudges = nudges[:maxNudges]
	}
	for i, n := range nudges {
		nudges[i] = truncateNudge(n)
	}
	return nudges
}

// ruleBasedNudges is the deterministic fallback path. Thresholds and wording
// are load-bearing: coaches and dashboards key off these exact messages.
func ruleBasedNudges(sentiment, talkRatio float64) []string {
	nudges := make([]string, 0, maxNudges)

	if sentiment < -0.3 {
		nudges = append(nudges, "Address customer concerns empathetically")
	} else if sentiment < 0 {
		nudges = append(nudges, "Use positive language to improve mood")
	}

	if talkRatio > 0.7 {
		nudges = append(nudges, "Listen more, talk less - aim for balance")
	} else if talkRatio < 0.4 {
		nudges = append(nudges, "Take more initiative in conversation")
	}

	if len(nudges) < maxNudges {
		need := maxNudges - len(nudges)
		if need > len(genericNudges) {
			need = len(genericNudges)
		}
		nudges = append(nudges, genericNudges[:need]...)
	}

	if len(nudges) > maxNudges {
		nudges = nudges[:maxNudges]
	}
	return nudges
}

// parseNudgeLines extracts up to three non-blank lines from a raw completion.
func parseNudgeLines(raw string) []string {
	var nudges []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		nudges = append(nudges, line)
		if len(nudges) == maxNudges {
			break
		}
	}
	return nudges
}

func truncateNudge(s string) string {
	runes := []rune(s)
	if len(runes) <= nudgeMaxChars {
		return s
	}
	return string(runes[:nudgeMaxChars])
}
