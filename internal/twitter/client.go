package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rafelvdy/StratosFi/internal/classifier"
	"github.com/Rafelvdy/StratosFi/internal/dedup"
	"github.com/Rafelvdy/StratosFi/internal/models"
	"github.com/Rafelvdy/StratosFi/internal/query"
	"go.uber.org/zap"
)

const (
	searchEndpoint = "/twitter/tweet/advanced_search"
	maxTweets      = 100
	maxRetries     = 3
)

// Client fetches and categorizes tweets from the search provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryDelay: time.Second,
		logger:     logger,
	}
}

// apiResponse is one page from the provider's advanced search endpoint.
type apiResponse struct {
	Tweets      []rawTweet `json:"tweets"`
	HasNextPage bool       `json:"has_next_page"`
	NextCursor  string     `json:"next_cursor"`
}

type rawTweet struct {
	ID            string  `json:"id"`
	Text          string  `json:"text"`
	CreatedAt     string  `json:"created_at"`
	FavoriteCount int     `json:"favorite_count"`
	RetweetCount  int     `json:"retweet_count"`
	ReplyCount    int     `json:"reply_count"`
	User          rawUser `json:"user"`
}

type rawUser struct {
	ScreenName      string `json:"screen_name"`
	FollowersCount  int    `json:"followers_count"`
	ProfileImageURL string `json:"profile_image_url"`
}

// FetchTweets pages through search results for the intent, deduplicates the
// accumulated tweets and partitions them into KOL and community sets.
// Accumulation stops once 100 tweets have been collected; the cap is checked
// after each page is appended, so the last page may push slightly past it.
func (c *Client) FetchTweets(ctx context.Context, intent models.SearchIntent) (models.TweetCategories, error) {
	if err := c.validate(&intent); err != nil {
		return models.TweetCategories{}, err
	}

	searchQuery := query.BuildQuery(intent)
	c.logger.Debug("constructed search query",
		zap.String("ticker", intent.Ticker),
		zap.String("query", searchQuery))

	var all []models.Tweet
	cursor := ""
	hasNextPage := true

	for hasNextPage {
		pageURL := fmt.Sprintf("%s%s?queryType=Latest&query=%s",
			c.baseURL, searchEndpoint, url.QueryEscape(searchQuery))
		if cursor != "" {
			pageURL += "&cursor=" + url.QueryEscape(cursor)
		}

		page, err := c.fetchPageWithRetry(ctx, pageURL)
		if err != nil {
			if _, ok := AsAPIError(err); !ok {
				err = &APIError{Code: CodeUnknown, Message: "an unexpected error occurred", Err: err}
			}
			return models.TweetCategories{}, err
		}

		all = append(all, transformPage(page)...)
		hasNextPage = page.HasNextPage
		cursor = page.NextCursor

		if len(all) >= maxTweets {
			break
		}
	}

	filtered := dedup.Filter(all)
	if removed := len(all) - len(filtered); removed > 0 {
		c.logger.Info("filtered duplicate tweets",
			zap.Int("removed", removed),
			zap.Int("remaining", len(filtered)))
	}

	categories := classifier.Classify(filtered)
	c.logger.Info("categorized tweets",
		zap.String("ticker", intent.Ticker),
		zap.Int("kol", len(categories.KOLTweets)),
		zap.Int("community", len(categories.CommunityTweets)))

	return categories, nil
}

func (c *Client) validate(intent *models.SearchIntent) error {
	if c.apiKey == "" {
		return &APIError{Code: CodeNoAPIKey, Message: "twitter api key not configured"}
	}
	if c.baseURL == "" {
		return &APIError{Code: CodeNoBaseURL, Message: "twitter api base url not configured"}
	}
	if intent.Ticker == "" {
		return &APIError{Code: CodeInvalidParams, Message: "ticker symbol is required"}
	}

	if normalized := query.NormalizeTimeframe(intent.Timeframe); normalized != intent.Timeframe {
		c.logger.Warn("invalid timeframe, defaulting to 24h",
			zap.String("timeframe", intent.Timeframe))
		intent.Timeframe = normalized
	}

	return nil
}

// fetchPageWithRetry retries transient provider failures with exponential
// backoff: up to 3 attempts with 1s and 2s delays in between. Non-retryable
// errors propagate immediately.
func (c *Client) fetchPageWithRetry(ctx context.Context, pageURL string) (*apiResponse, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		page, err := c.fetchPage(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		apiErr, ok := AsAPIError(err)
		if !ok || !apiErr.Retryable() {
			return nil, err
		}
		if attempt == maxRetries-1 {
			break
		}

		delay := c.retryDelay * (1 << attempt)
		c.logger.Info("retrying twitter request",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, &APIError{Code: CodeMaxRetries, Message: "maximum retry attempts exceeded", Err: lastErr}
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, resp.Status)
	}

	var page apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &APIError{Code: CodeInvalidResponse, Message: "invalid response format from twitter api", Err: err}
	}
	if page.Tweets == nil {
		return nil, &APIError{Code: CodeInvalidResponse, Message: "invalid response format from twitter api"}
	}

	return &page, nil
}

func statusError(statusCode int, status string) *APIError {
	switch statusCode {
	case http.StatusTooManyRequests:
		return &APIError{Code: CodeRateLimit, Message: "rate limit exceeded"}
	case http.StatusUnauthorized:
		return &APIError{Code: CodeUnauthorized, Message: "invalid api key"}
	case http.StatusBadRequest:
		return &APIError{Code: CodeBadRequest, Message: "invalid request parameters"}
	default:
		return &APIError{Code: CodeAPIError, Message: fmt.Sprintf("twitter api error: %s", status)}
	}
}

// transformPage normalizes raw provider tweets. Missing counts default to
// zero, a missing username becomes "unknown".
func transformPage(page *apiResponse) []models.Tweet {
	tweets := make([]models.Tweet, 0, len(page.Tweets))
	for _, raw := range page.Tweets {
		username := raw.User.ScreenName
		if username == "" {
			username = "unknown"
		}
		tweets = append(tweets, models.Tweet{
			ID:        raw.ID,
			Text:      raw.Text,
			CreatedAt: raw.CreatedAt,
			Metrics: models.TweetMetrics{
				Likes:    raw.FavoriteCount,
				Retweets: raw.RetweetCount,
				Replies:  raw.ReplyCount,
			},
			Author: models.TweetAuthor{
				Username:        username,
				FollowersCount:  raw.User.FollowersCount,
				ProfileImageURL: raw.User.ProfileImageURL,
			},
		})
	}
	return tweets
}
