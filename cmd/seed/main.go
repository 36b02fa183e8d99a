// Command seed fills the database with synthetic sales calls so the API has
// data to serve before real ingestion is connected.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saleslens/core/internal/config"
	"github.com/saleslens/core/internal/database"
	"github.com/saleslens/core/internal/models"
	"github.com/saleslens/core/internal/modules/extractor"
	"github.com/saleslens/core/internal/modules/insight"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	count := flag.Int("count", 200, "Number of synthetic calls to create")
	agents := flag.Int("agents", 20, "Number of distinct agents to spread calls across")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	ext := extractor.NewClient(cfg.Extractor)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	created := 0
	for i := 0; i < *count; i++ {
		call := generateCall(rng, *agents, i)

		ratio := insight.EstimateTalkRatio(call.Transcript)
		call.AgentTalkRatio = &ratio

		if sentiment, err := ext.Sentiment(ctx, call.Transcript); err != nil {
			logger.Warn("sentiment extraction failed, field stays null",
				zap.String("call_id", call.CallID), zap.Error(err))
		} else {
			call.CustomerSentimentScore = &sentiment
		}

		if embedding, err := ext.Embed(ctx, call.Transcript); err != nil {
			logger.Warn("embedding extraction failed, field stays null",
				zap.String("call_id", call.CallID), zap.Error(err))
		} else {
			call.Embedding = models.FloatArray(embedding)
		}

		if err := db.Create(&call).Error; err != nil {
			logger.Warn("failed to save call", zap.String("call_id", call.CallID), zap.Error(err))
			continue
		}
		created++
	}

	logger.Info("seeding finished", zap.Int("created", created), zap.Int("requested", *count))
}

type template struct {
	scenario string
	lines    []string
}

var templates = []template{
	{
		scenario: "product demo",
		lines: []string{
			"Agent: Good morning, thank you for your interest in our product.",
			"Customer: Hi, I've been looking for a solution to help with {problem}.",
			"Agent: Perfect! Our {product} is designed specifically for that. Let me show you how it works.",
			"Customer: That sounds interesting. What makes it different from {competitor}?",
			"Agent: Great question! The key difference is {value}. Would you like to see a demo?",
			"Customer: Yes, that would be helpful.",
			"Agent: Excellent! What's your timeline for implementation?",
			"Customer: We're looking at {timeline}. What about pricing?",
			"Agent: I'll prepare a custom quote based on your needs. Can we schedule a demo for next week?",
			"Customer: {closing}",
		},
	},
	{
		scenario: "support",
		lines: []string{
			"Agent: Hello, I understand you're having an issue with {feature}.",
			"Customer: Yes, it's been {duration} and I can't figure out what's wrong.",
			"Agent: I'm sorry to hear that. Can you tell me exactly what happens?",
			"Customer: {symptom}",
			"Agent: I see the issue. This is a common problem we can fix easily. First, {step1}. Then {step2}.",
			"Customer: Got it, let me try that... Oh wow, that worked! Thank you so much.",
			"Agent: Wonderful! Is there anything else I can help you with today?",
			"Customer: No, that's all. Thanks!",
		},
	},
	{
		scenario: "follow-up",
		lines: []string{
			"Agent: Hi, I wanted to follow up on our conversation about {product}.",
			"Customer: {opener}",
			"Agent: I understand your concerns about {concern}. Many of our clients had similar worries initially.",
			"Customer: What did they find after implementation?",
			"Agent: They typically see {benefit} within the first month.",
			"Customer: That's impressive. What about the learning curve?",
			"Agent: We provide comprehensive training and our support team is available around the clock.",
			"Customer: {objection}",
			"Agent: I understand budget is important. Most clients see payback within {roi}.",
			"Customer: {closing}",
		},
	},
}

var slots = map[string][]string{
	"problem":    {"managing customer data", "tracking sales pipeline", "automating workflows", "improving team communication"},
	"product":    {"SalesFlow Pro", "DataSync Plus", "WorkflowMaster", "TeamConnect"},
	"competitor": {"Salesforce", "HubSpot", "Pipedrive", "Monday.com"},
	"value":      {"advanced analytics", "seamless integrations", "an intuitive interface", "comprehensive reporting"},
	"timeline":   {"Q2 next year", "within 3 months", "as soon as possible", "by end of year"},
	"closing":    {"Sounds good!", "I need to discuss with my team first.", "Let me think about it.", "Yes, let's move forward."},
	"feature":    {"the reporting dashboard", "data export", "user permissions", "the mobile app"},
	"duration":   {"happening since yesterday", "going on for a week", "started this morning", "occurring intermittently"},
	"symptom":    {"I get an error message.", "The page won't load.", "Data isn't syncing.", "Nothing happens when I click."},
	"step1":      {"clear your browser cache", "check your permissions", "refresh the data", "restart the application"},
	"step2":      {"try the action again", "wait five minutes for sync", "check the updated settings"},
	"opener":     {"I'm still interested.", "I have some concerns.", "My team needs more info.", "We're comparing options."},
	"concern":    {"price", "implementation time", "training requirements", "integration complexity"},
	"benefit":    {"30% time savings", "improved accuracy", "better collaboration", "increased sales"},
	"objection":  {"It seems expensive.", "Budget is tight.", "I need to justify the cost."},
	"roi":        {"6 months", "one year", "3 months", "9 months"},
}

func generateCall(rng *rand.Rand, agents, seq int) models.CallModel {
	tpl := templates[rng.Intn(len(templates))]

	lines := make([]string, len(tpl.lines))
	for i, line := range tpl.lines {
		lines[i] = fillSlots(rng, line)
	}

	startTime := time.Now().Add(-time.Duration(rng.Intn(30*24)) * time.Hour)

	return models.CallModel{
		CallID:          fmt.Sprintf("CALL_%06d", 100000+seq),
		AgentID:         fmt.Sprintf("AGENT_%d", rng.Intn(agents)+1),
		CustomerID:      fmt.Sprintf("CUST_%05d", rng.Intn(90000)+10000),
		Language:        "en",
		StartTime:       startTime,
		DurationSeconds: rng.Intn(3300) + 300,
		Transcript:      strings.Join(lines, "\n"),
	}
}

func fillSlots(rng *rand.Rand, line string) string {
	for key, values := range slots {
		placeholder := "{" + key + "}"
		for strings.Contains(line, placeholder) {
			line = strings.Replace(line, placeholder, values[rng.Intn(len(values))], 1)
		}
	}
	return line
}
