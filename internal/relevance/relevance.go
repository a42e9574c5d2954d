package relevance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rafelvdy/StratosFi/internal/query"
)

// relationshipTemplates are the causal phrasings that make a mention of a
// different ticker relevant to the queried one.
var relationshipTemplates = []string{
	"%s.*impact.*%s",
	"%s.*affect.*%s",
	"%s.*influence.*%s",
	"correlation.*%s.*%s",
	"relationship.*%s.*%s",
}

// FilterRelevant keeps only the strings that concern the queried ticker:
// either a direct word/$/# mention, or a mention of another known ticker in
// an explicit causal relationship with the queried one.
func FilterRelevant(items []string, ticker string) []string {
	direct := directPattern(ticker)
	mainTicker := strings.ToUpper(ticker)

	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if direct.MatchString(item) {
			kept = append(kept, item)
			continue
		}
		for _, other := range query.KnownTickers {
			if other == mainTicker {
				continue
			}
			if strings.Contains(item, other) && hasRelationship(item, mainTicker, other) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}

func directPattern(ticker string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(ticker)
	return regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\b|\$%s\b|#%s\b`, quoted, quoted, quoted))
}

func hasRelationship(content, mainTicker, otherTicker string) bool {
	for _, template := range relationshipTemplates {
		pattern := fmt.Sprintf("(?i)"+template, regexp.QuoteMeta(otherTicker), regexp.QuoteMeta(mainTicker))
		if regexp.MustCompile(pattern).MatchString(content) {
			return true
		}
	}
	return false
}
