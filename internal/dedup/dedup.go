package dedup

import (
	"regexp"
	"strings"

	"github.com/Rafelvdy/StratosFi/internal/models"
)

// similarityThreshold is the bag-of-words overlap above which two tweets
// count as near-duplicates.
const similarityThreshold = 0.7

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// Filter removes exact and near-duplicate tweets. The first occurrence of
// a duplicated text survives; later ones are dropped. Running the filter
// on its own output is a no-op.
func Filter(tweets []models.Tweet) []models.Tweet {
	filtered := make([]models.Tweet, 0, len(tweets))
	seen := make(map[string]struct{}, len(tweets))

	for _, tweet := range tweets {
		if _, ok := seen[tweet.Text]; ok {
			continue
		}

		similar := false
		for _, kept := range filtered {
			if Similar(tweet.Text, kept.Text) {
				similar = true
				break
			}
		}

		if !similar {
			filtered = append(filtered, tweet)
			seen[tweet.Text] = struct{}{}
		}
	}

	return filtered
}

// Similar reports whether two texts share more than 70% of their words
// after lowercasing and stripping punctuation.
func Similar(text1, text2 string) bool {
	words1 := tokenize(text1)
	words2 := tokenize(text2)

	if len(words1) == 0 || len(words2) == 0 {
		return false
	}

	set2 := make(map[string]struct{}, len(words2))
	for _, w := range words2 {
		set2[w] = struct{}{}
	}

	common := 0
	for _, w := range words1 {
		if _, ok := set2[w]; ok {
			common++
		}
	}

	longest := len(words1)
	if len(words2) > longest {
		longest = len(words2)
	}

	return float64(common)/float64(longest) > similarityThreshold
}

func tokenize(text string) []string {
	clean := nonWordPattern.ReplaceAllString(strings.ToLower(text), "")
	return strings.Fields(clean)
}
