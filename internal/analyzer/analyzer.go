package analyzer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rafelvdy/StratosFi/internal/models"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// batchSize is the number of tweets sent to the model per request.
const batchSize = 10

var (
	// ErrNoTweets is returned when there is nothing to analyze.
	ErrNoTweets = errors.New("no tweets provided for analysis")
	// ErrAnalysisFailed is returned when no tweet produced a parseable analysis.
	ErrAnalysisFailed = errors.New("failed to analyze any tweets")
)

var (
	markerPattern  = regexp.MustCompile(`\[(Omit|None|Omitted)\]`)
	moodPattern    = regexp.MustCompile(`MOOD VALUE:\s*(\d)`)
	eventPattern   = regexp.MustCompile(`EVENT:[ \t]*(.+)`)
	insightPattern = regexp.MustCompile(`INSIGHT:[ \t]*(.+)`)
)

// Analyzer scores community mood by sending tweet batches to an
// OpenAI-compatible chat completion API.
type Analyzer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// New builds an Analyzer. baseURL may point at any OpenAI-compatible
// endpoint; the default DeepSeek deployment is configured in pkg/config.
func New(apiKey, baseURL, model string, logger *zap.Logger) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Analyzer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

type batchResult struct {
	index    int
	analyses []models.MoodAnalysis
	err      error
}

// Analyze scores every tweet's mood and collects significant events and
// insights. Tweets are expected to be deduplicated already; they are split
// into batches of 10 with all batch requests in flight concurrently. The
// join is all-or-nothing: one failed batch fails the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context, tweets []models.Tweet) (models.AggregateAnalysis, error) {
	if len(tweets) == 0 {
		return models.AggregateAnalysis{}, ErrNoTweets
	}

	var batches [][]models.Tweet
	for i := 0; i < len(tweets); i += batchSize {
		end := i + batchSize
		if end > len(tweets) {
			end = len(tweets)
		}
		batches = append(batches, tweets[i:end])
	}

	results := make(chan batchResult, len(batches))
	for i, batch := range batches {
		go func(index int, batch []models.Tweet) {
			analyses, err := a.analyzeBatch(ctx, batch)
			results <- batchResult{index: index, analyses: analyses, err: err}
		}(i, batch)
	}

	ordered := make([][]models.MoodAnalysis, len(batches))
	var firstErr error
	for range batches {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		ordered[r.index] = r.analyses
	}
	if firstErr != nil {
		a.logger.Error("batch analysis failed", zap.Error(firstErr))
		return models.AggregateAnalysis{}, firstErr
	}

	var analyses []models.MoodAnalysis
	events := newStringSet()
	insights := newStringSet()
	for _, batchAnalyses := range ordered {
		for _, analysis := range batchAnalyses {
			analyses = append(analyses, analysis)
			events.addAll(analysis.Events)
			insights.addAll(analysis.Insights)
		}
	}

	if len(analyses) == 0 {
		return models.AggregateAnalysis{}, ErrAnalysisFailed
	}

	total := 0
	for _, analysis := range analyses {
		total += analysis.Mood
	}

	return models.AggregateAnalysis{
		AverageMood: float64(total) / float64(len(analyses)),
		Events:      events.values(),
		Insights:    insights.values(),
	}, nil
}

func (a *Analyzer) analyzeBatch(ctx context.Context, batch []models.Tweet) ([]models.MoodAnalysis, error) {
	texts := make([]string, len(batch))
	for i, tweet := range batch {
		texts[i] = tweet.Text
	}
	content := strings.Join(texts, "\n"+tweetDelimiter+"\n")

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("analyze batch: empty model response")
	}

	segments := strings.Split(resp.Choices[0].Message.Content, tweetDelimiter)
	analyses := make([]models.MoodAnalysis, 0, len(segments))
	for _, segment := range segments {
		analyses = append(analyses, parseAnalysis(segment))
	}
	return analyses, nil
}

// parseAnalysis extracts one tweet's mood, event and insight from a model
// response segment. Stray internal markers are stripped first; an absent or
// unparseable mood defaults to neutral.
func parseAnalysis(segment string) models.MoodAnalysis {
	clean := strings.TrimSpace(markerPattern.ReplaceAllString(segment, ""))

	analysis := models.MoodAnalysis{Mood: 3}
	if m := moodPattern.FindStringSubmatch(clean); m != nil {
		if mood, err := strconv.Atoi(m[1]); err == nil {
			analysis.Mood = mood
		}
	}
	if m := eventPattern.FindStringSubmatch(clean); m != nil {
		if event := strings.TrimSpace(m[1]); event != "" {
			analysis.Events = []string{event}
		}
	}
	if m := insightPattern.FindStringSubmatch(clean); m != nil {
		if insight := strings.TrimSpace(m[1]); insight != "" {
			analysis.Insights = []string{insight}
		}
	}
	return analysis
}

// stringSet collects unique strings preserving first-seen order.
type stringSet struct {
	seen  map[string]struct{}
	items []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) addAll(values []string) {
	for _, v := range values {
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

func (s *stringSet) values() []string {
	return s.items
}
