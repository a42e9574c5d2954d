package classifier

import (
	"sort"

	"github.com/Rafelvdy/StratosFi/internal/models"
)

// MinKOLFollowers is the follower count at which an account counts as
// influential.
const MinKOLFollowers = 5000

// Classify partitions tweets into KOL and community sets. An author with at
// least MinKOLFollowers followers is a KOL; everyone else is community. KOL
// tweets are sorted by descending influence score, community tweets keep
// arrival order.
func Classify(tweets []models.Tweet) models.TweetCategories {
	categories := models.TweetCategories{
		KOLTweets:       []models.KOLTweet{},
		CommunityTweets: []models.Tweet{},
	}

	for _, tweet := range tweets {
		if tweet.Author.FollowersCount >= MinKOLFollowers {
			categories.KOLTweets = append(categories.KOLTweets, models.KOLTweet{
				Tweet:          tweet,
				InfluenceScore: influenceScore(tweet.Author.FollowersCount),
				TimeFactor:     1,
			})
		} else {
			categories.CommunityTweets = append(categories.CommunityTweets, tweet)
		}
	}

	sort.SliceStable(categories.KOLTweets, func(i, j int) bool {
		return categories.KOLTweets[i].InfluenceScore > categories.KOLTweets[j].InfluenceScore
	})

	return categories
}

// influenceScore scales follower count linearly against the KOL threshold
// and clamps at 100. Any account at or above the threshold therefore scores
// exactly 100; the score is kept in this saturating form deliberately.
func influenceScore(followers int) float64 {
	score := float64(followers) / float64(MinKOLFollowers) * 100
	if score > 100 {
		return 100
	}
	return score
}
