package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Rafelvdy/StratosFi/internal/models"
	"github.com/go-playground/assert/v2"
	"go.uber.org/zap"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func testAnalyzer(srv *httptest.Server) *Analyzer {
	return New("test-key", srv.URL+"/v1", "deepseek-chat", zap.NewNop())
}

func makeTweets(n int) []models.Tweet {
	tweets := make([]models.Tweet, n)
	for i := range tweets {
		tweets[i] = models.Tweet{
			ID:   fmt.Sprintf("%d", i),
			Text: fmt.Sprintf("tweet number %d with its own words %d %d", i, i*7, i*13),
		}
	}
	return tweets
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := New("test-key", "", "deepseek-chat", zap.NewNop())

	_, err := a.Analyze(context.Background(), nil)

	assert.Equal(t, true, errors.Is(err, ErrNoTweets))
}

func TestAnalyze_AveragesAcrossAllTweets(t *testing.T) {
	// one batch of five tweets with moods 1,3,5,4,4 -> mean 17/5 = 3.4
	moods := []string{
		"MOOD VALUE: 1",
		"MOOD VALUE: 3\nEVENT: BTC ETF approved by regulators",
		"MOOD VALUE: 5\nINSIGHT: BTC funding rates flipped negative",
		"MOOD VALUE: 4",
		"MOOD VALUE: 4\nEVENT: BTC ETF approved by regulators",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse(strings.Join(moods, "\n"+tweetDelimiter+"\n")))
	}))
	defer srv.Close()

	analysis, err := testAnalyzer(srv).Analyze(context.Background(), makeTweets(5))

	assert.Equal(t, nil, err)
	assert.Equal(t, 3.4, analysis.AverageMood)

	// duplicate events collapse into a set
	assert.Equal(t, 1, len(analysis.Events))
	assert.Equal(t, "BTC ETF approved by regulators", analysis.Events[0])
	assert.Equal(t, 1, len(analysis.Insights))
}

func TestAnalyze_BatchesConcurrently(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)

		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "deepseek-chat", req.Model)
		assert.Equal(t, 2, len(req.Messages))
		assert.Equal(t, "system", req.Messages[0].Role)

		count := strings.Count(req.Messages[1].Content, tweetDelimiter) + 1
		segments := make([]string, count)
		for i := range segments {
			segments[i] = "MOOD VALUE: 4"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse(strings.Join(segments, "\n"+tweetDelimiter+"\n")))
	}))
	defer srv.Close()

	// 13 tweets split into batches of 10 and 3
	analysis, err := testAnalyzer(srv).Analyze(context.Background(), makeTweets(13))

	assert.Equal(t, nil, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	assert.Equal(t, 4.0, analysis.AverageMood)
}

func TestAnalyze_OneFailedBatchFailsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)

		count := strings.Count(req.Messages[1].Content, tweetDelimiter) + 1
		if count < 10 {
			// fail the short batch only
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		segments := make([]string, count)
		for i := range segments {
			segments[i] = "MOOD VALUE: 3"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse(strings.Join(segments, "\n"+tweetDelimiter+"\n")))
	}))
	defer srv.Close()

	_, err := testAnalyzer(srv).Analyze(context.Background(), makeTweets(13))

	assert.NotEqual(t, nil, err)
}

func TestParseAnalysis(t *testing.T) {
	analysis := parseAnalysis("MOOD VALUE: 5\nEVENT: SOL listed on major exchange\nINSIGHT: validator count doubled")
	assert.Equal(t, 5, analysis.Mood)
	assert.Equal(t, []string{"SOL listed on major exchange"}, analysis.Events)
	assert.Equal(t, []string{"validator count doubled"}, analysis.Insights)
}

func TestParseAnalysis_DefaultsToNeutral(t *testing.T) {
	analysis := parseAnalysis("no structured output here")
	assert.Equal(t, 3, analysis.Mood)
	assert.Equal(t, 0, len(analysis.Events))
	assert.Equal(t, 0, len(analysis.Insights))
}

func TestParseAnalysis_StripsInternalMarkers(t *testing.T) {
	analysis := parseAnalysis("MOOD VALUE: 2\nEVENT: [Omit]\nINSIGHT: [None]")
	assert.Equal(t, 2, analysis.Mood)
	assert.Equal(t, 0, len(analysis.Events))
	assert.Equal(t, 0, len(analysis.Insights))

	analysis = parseAnalysis("MOOD VALUE: 4\nEVENT: [Omitted] BTC hashrate at all-time high")
	assert.Equal(t, 4, analysis.Mood)
	assert.Equal(t, []string{"BTC hashrate at all-time high"}, analysis.Events)
}
