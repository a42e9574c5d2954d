package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rafelvdy/StratosFi/internal/models"
	"github.com/go-playground/assert/v2"
	"go.uber.org/zap"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		apiKey:     "test-key",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
		retryDelay: 10 * time.Millisecond,
		logger:     zap.NewNop(),
	}
}

func intent() models.SearchIntent {
	return models.SearchIntent{Ticker: "BTC", Timeframe: "24h"}
}

func rawTweetJSON(id string, followers int) map[string]interface{} {
	return map[string]interface{}{
		"id":             id,
		"text":           fmt.Sprintf("%s %s %s market talk", id, id, id),
		"created_at":     "2026-03-15T10:00:00Z",
		"favorite_count": 3,
		"retweet_count":  1,
		"reply_count":    0,
		"user": map[string]interface{}{
			"screen_name":       "author_" + id,
			"followers_count":   followers,
			"profile_image_url": "https://example.com/" + id + ".png",
		},
	}
}

func pageJSON(tweets []map[string]interface{}, hasNext bool, cursor string) map[string]interface{} {
	return map[string]interface{}{
		"tweets":        tweets,
		"has_next_page": hasNext,
		"next_cursor":   cursor,
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func TestFetchTweets_SinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "Latest", r.URL.Query().Get("queryType"))
		assert.NotEqual(t, "", r.URL.Query().Get("query"))

		writeJSON(w, pageJSON([]map[string]interface{}{
			rawTweetJSON("1", 100),
			rawTweetJSON("2", 50000),
		}, false, ""))
	}))
	defer srv.Close()

	categories, err := testClient(srv).FetchTweets(context.Background(), intent())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(categories.KOLTweets))
	assert.Equal(t, 1, len(categories.CommunityTweets))
	assert.Equal(t, "author_1", categories.CommunityTweets[0].Author.Username)
	assert.Equal(t, 3, categories.CommunityTweets[0].Metrics.Likes)
}

func TestFetchTweets_PaginationAndSoftCap(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			assert.Equal(t, "", r.URL.Query().Get("cursor"))
			tweets := make([]map[string]interface{}, 0, 60)
			for i := 0; i < 60; i++ {
				tweets = append(tweets, rawTweetJSON(fmt.Sprintf("p1-%d", i), 10))
			}
			writeJSON(w, pageJSON(tweets, true, "cursor-1"))
		case 2:
			assert.Equal(t, "cursor-1", r.URL.Query().Get("cursor"))
			tweets := make([]map[string]interface{}, 0, 60)
			for i := 0; i < 60; i++ {
				tweets = append(tweets, rawTweetJSON(fmt.Sprintf("p2-%d", i), 10))
			}
			writeJSON(w, pageJSON(tweets, true, "cursor-2"))
		default:
			t.Errorf("unexpected extra page request %d", calls)
		}
	}))
	defer srv.Close()

	categories, err := testClient(srv).FetchTweets(context.Background(), intent())

	assert.Equal(t, nil, err)
	// the cap is checked after appending a page, so 120 tweets come back
	// even though the provider had more pages
	assert.Equal(t, 2, calls)
	assert.Equal(t, 120, len(categories.CommunityTweets))
}

func TestFetchTweets_NormalizationDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"tweets": []map[string]interface{}{
				{"id": "1", "text": "bare tweet"},
			},
			"has_next_page": false,
		})
	}))
	defer srv.Close()

	categories, err := testClient(srv).FetchTweets(context.Background(), intent())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(categories.CommunityTweets))

	tweet := categories.CommunityTweets[0]
	assert.Equal(t, "unknown", tweet.Author.Username)
	assert.Equal(t, 0, tweet.Author.FollowersCount)
	assert.Equal(t, "", tweet.Author.ProfileImageURL)
	assert.Equal(t, 0, tweet.Metrics.Likes)
}

func TestFetchTweets_RetriesRateLimitThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, pageJSON([]map[string]interface{}{rawTweetJSON("1", 10)}, false, ""))
	}))
	defer srv.Close()

	client := testClient(srv)
	start := time.Now()
	categories, err := client.FetchTweets(context.Background(), intent())
	elapsed := time.Since(start)

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, len(categories.CommunityTweets))
	// backoff delays of 1x and 2x the base delay
	assert.Equal(t, true, elapsed >= 3*client.retryDelay)
}

func TestFetchTweets_BadRequestNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchTweets(context.Background(), intent())

	assert.Equal(t, 1, calls)
	apiErr, ok := AsAPIError(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, CodeBadRequest, apiErr.Code)
}

func TestFetchTweets_UnauthorizedNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchTweets(context.Background(), intent())

	assert.Equal(t, 1, calls)
	apiErr, ok := AsAPIError(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, CodeUnauthorized, apiErr.Code)
}

func TestFetchTweets_MaxRetriesExceeded(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchTweets(context.Background(), intent())

	assert.Equal(t, maxRetries, calls)
	apiErr, ok := AsAPIError(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, CodeMaxRetries, apiErr.Code)
}

func TestFetchTweets_InvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"has_next_page": false})
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchTweets(context.Background(), intent())

	apiErr, ok := AsAPIError(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, CodeInvalidResponse, apiErr.Code)
}

func TestFetchTweets_MissingCredentials(t *testing.T) {
	client := &Client{logger: zap.NewNop()}

	_, err := client.FetchTweets(context.Background(), intent())

	apiErr, ok := AsAPIError(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, CodeNoAPIKey, apiErr.Code)

	client = &Client{apiKey: "key", logger: zap.NewNop()}
	_, err = client.FetchTweets(context.Background(), intent())

	apiErr, ok = AsAPIError(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, CodeNoBaseURL, apiErr.Code)
}

func TestFetchTweets_MissingTicker(t *testing.T) {
	client := &Client{apiKey: "key", baseURL: "http://localhost", logger: zap.NewNop()}

	_, err := client.FetchTweets(context.Background(), models.SearchIntent{Timeframe: "24h"})

	apiErr, ok := AsAPIError(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, CodeInvalidParams, apiErr.Code)
}

func TestFetchTweets_InvalidTimeframeCoerced(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		writeJSON(w, pageJSON([]map[string]interface{}{}, false, ""))
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchTweets(context.Background(), models.SearchIntent{Ticker: "BTC", Timeframe: "2y"})

	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", gotQuery)
}
