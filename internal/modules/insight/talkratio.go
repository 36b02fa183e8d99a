package insight

import (
	"regexp"
	"strings"
)

var (
	agentLineRe    = regexp.MustCompile(`(?i)^(agent|a):`)
	customerLineRe = regexp.MustCompile(`(?i)^(customer|c):`)
	speakerLabelRe = regexp.MustCompile(`(?i)^(agent|a|customer|c):\s*`)
	wordTokenRe    = regexp.MustCompile(`[0-9A-Za-z_]+`)
)

// EstimateTalkRatio returns the fraction of transcript words spoken by the
// agent, in [0,1]. Lines are attributed by speaker prefix ("Agent:", "A:",
// "Customer:", "C:", any case); unlabeled lines split their words between the
// two sides, with the odd word going to the agent. An empty or all-blank
// transcript scores exactly 0.5, and so does any internal failure: talk ratio
// is advisory and must never take an ingest down.
func EstimateTalkRatio(transcript string) (ratio float64) {
	defer func() {
		if r := recover(); r != nil {
			ratio = 0.5
		}
	}()

	var agentWords, customerWords int

	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		isAgent := agentLineRe.MatchString(line)
		isCustomer := customerLineRe.MatchString(line)

		clean := speakerLabelRe.ReplaceAllString(line, "")
		words := len(wordTokenRe.FindAllString(clean, -1))

		switch {
		case isAgent:
			agentWords += words
		case isCustomer:
			customerWords += words
		default:
			customerWords += words / 2
			agentWords += words - words/2
		}
	}

	total := agentWords + customerWords
	if total == 0 {
		return 0.5
	}
	return float64(agentWords) / float64(total)
}
