package models

// SearchIntent is the normalized form of a user's question: which ticker
// to search for and how far back to look.
type SearchIntent struct {
	Ticker    string `json:"ticker"`
	Timeframe string `json:"timeframe"`
}

// TweetMetrics holds engagement counts for a single tweet.
type TweetMetrics struct {
	Likes    int `json:"likes"`
	Retweets int `json:"retweets"`
	Replies  int `json:"replies"`
}

// TweetAuthor identifies the account behind a tweet.
type TweetAuthor struct {
	Username        string `json:"username"`
	FollowersCount  int    `json:"followers_count"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Tweet is a normalized social post as returned by the search provider.
type Tweet struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	CreatedAt string       `json:"created_at"`
	Metrics   TweetMetrics `json:"metrics"`
	Author    TweetAuthor  `json:"author"`
}

// KOLTweet is a tweet from an influential account, annotated with a
// bounded influence score.
type KOLTweet struct {
	Tweet
	InfluenceScore float64 `json:"influence_score"`
	TimeFactor     float64 `json:"time_factor"`
}

// TweetCategories partitions fetched tweets into influential (KOL) and
// community sets. Every tweet lands in exactly one side.
type TweetCategories struct {
	KOLTweets       []KOLTweet `json:"kol_tweets"`
	CommunityTweets []Tweet    `json:"community_tweets"`
}

// MoodAnalysis is the per-tweet result parsed from a model response.
type MoodAnalysis struct {
	Mood     int      `json:"mood"`
	Events   []string `json:"events,omitempty"`
	Insights []string `json:"insights,omitempty"`
}

// AggregateAnalysis is the combined result over all analyzed tweets.
// Events and insights are deduplicated across batches.
type AggregateAnalysis struct {
	AverageMood float64  `json:"average_mood"`
	Events      []string `json:"events"`
	Insights    []string `json:"insights"`
}

// ColorValue carries a display value with its color code.
type ColorValue struct {
	Value string `json:"value"`
	Color string `json:"color"`
}

// AnalysisMessage is one formatted message in an analysis response.
type AnalysisMessage struct {
	Type       string      `json:"type"`
	Content    string      `json:"content"`
	ColorValue *ColorValue `json:"colorValue,omitempty"`
}

// Message types used in AnalysisMessage.Type.
const (
	MessageTypeMood     = "mood"
	MessageTypeInsights = "insights"
	MessageTypeEvents   = "events"
)

// AnalysisResult is the orchestrator's response for one user question.
type AnalysisResult struct {
	Success  bool              `json:"success"`
	Messages []AnalysisMessage `json:"messages"`
}
