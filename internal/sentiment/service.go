package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rafelvdy/StratosFi/internal/models"
	"github.com/Rafelvdy/StratosFi/internal/query"
	"github.com/Rafelvdy/StratosFi/internal/relevance"
	"go.uber.org/zap"
)

// TweetFetcher retrieves and categorizes tweets for a search intent.
type TweetFetcher interface {
	FetchTweets(ctx context.Context, intent models.SearchIntent) (models.TweetCategories, error)
}

// MoodAnalyzer scores community mood over a set of tweets.
type MoodAnalyzer interface {
	Analyze(ctx context.Context, tweets []models.Tweet) (models.AggregateAnalysis, error)
}

// Service runs the full sentiment pipeline for one user question:
// intent extraction, fetch, analysis, relevance filtering and formatting.
type Service struct {
	fetcher  TweetFetcher
	analyzer MoodAnalyzer
	logger   *zap.Logger
}

func NewService(fetcher TweetFetcher, analyzer MoodAnalyzer, logger *zap.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Analyze answers a free-text question about a cryptocurrency. It never
// returns an error: every failure becomes a success:false result carrying
// a single user-facing message.
func (s *Service) Analyze(ctx context.Context, message string) models.AnalysisResult {
	intent := query.ExtractSearchIntent(message)
	if intent.Ticker == "" {
		return failure("I couldn't understand which cryptocurrency you're asking about. Please specify a cryptocurrency name or symbol.")
	}

	s.logger.Info("analyzing sentiment",
		zap.String("ticker", intent.Ticker),
		zap.String("timeframe", intent.Timeframe))

	categories, err := s.fetcher.FetchTweets(ctx, intent)
	if err != nil {
		s.logger.Error("tweet fetch failed", zap.Error(err), zap.String("ticker", intent.Ticker))
		return failure(err.Error())
	}

	if len(categories.CommunityTweets) == 0 {
		return failure(fmt.Sprintf("No community tweets found for %s in the specified timeframe.", intent.Ticker))
	}

	analysis, err := s.analyzer.Analyze(ctx, categories.CommunityTweets)
	if err != nil {
		s.logger.Error("mood analysis failed", zap.Error(err), zap.String("ticker", intent.Ticker))
		return failure(err.Error())
	}

	messages := []models.AnalysisMessage{
		{
			Type:    models.MessageTypeMood,
			Content: fmt.Sprintf("Community Mood for %s: %.1f/5", intent.Ticker, analysis.AverageMood),
			ColorValue: &models.ColorValue{
				Value: fmt.Sprintf("%.1f", analysis.AverageMood),
				Color: moodColor(analysis.AverageMood),
			},
		},
	}

	if insights := relevance.FilterRelevant(analysis.Insights, intent.Ticker); len(insights) > 0 {
		messages = append(messages, models.AnalysisMessage{
			Type:    models.MessageTypeInsights,
			Content: "Key Insights:\n" + bulleted(insights),
		})
	}

	if events := relevance.FilterRelevant(analysis.Events, intent.Ticker); len(events) > 0 {
		messages = append(messages, models.AnalysisMessage{
			Type:    models.MessageTypeEvents,
			Content: "Significant Events:\n" + bulleted(events),
		})
	}

	return models.AnalysisResult{Success: true, Messages: messages}
}

// moodColor maps a mood average to its display color: red below 2.5,
// orange up to 3.5, green above.
func moodColor(mood float64) string {
	if mood < 2.5 {
		return "#ff4444"
	}
	if mood <= 3.5 {
		return "#ffa500"
	}
	return "#00c853"
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + strings.TrimSpace(item)
	}
	return strings.Join(lines, "\n")
}

func failure(content string) models.AnalysisResult {
	return models.AnalysisResult{
		Success: false,
		Messages: []models.AnalysisMessage{
			{Type: models.MessageTypeMood, Content: content},
		},
	}
}
