package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Rafelvdy/StratosFi/internal/models"
)

// KnownTickers is the fixed set of symbols the pipeline understands.
var KnownTickers = []string{"BTC", "ETH", "SOL", "DOGE", "XRP", "ADA"}

// tickerMapping resolves full coin names and prefixed symbols to their
// canonical ticker.
var tickerMapping = map[string]string{
	"bitcoin":  "BTC",
	"btc":      "BTC",
	"$btc":     "BTC",
	"#btc":     "BTC",
	"ethereum": "ETH",
	"eth":      "ETH",
	"$eth":     "ETH",
	"#eth":     "ETH",
	"solana":   "SOL",
	"sol":      "SOL",
	"$sol":     "SOL",
	"#sol":     "SOL",
	"dogecoin": "DOGE",
	"doge":     "DOGE",
	"$doge":    "DOGE",
	"#doge":    "DOGE",
	"ripple":   "XRP",
	"xrp":      "XRP",
	"$xrp":     "XRP",
	"#xrp":     "XRP",
	"cardano":  "ADA",
	"ada":      "ADA",
	"$ada":     "ADA",
	"#ada":     "ADA",
}

// excludedPhrases are negated in the provider query to cut spam and promo noise.
var excludedPhrases = []string{
	"giveaway",
	"contest",
	"airdrop",
	"pump",
	"dm me",
	"dm for",
	"lets collaborate",
	"win",
	"claim",
	"free",
	"bot",
	"spam",
}

var (
	tickerPattern     = regexp.MustCompile(`(?i)\b(BTC|ETH|SOL|DOGE|XRP|ADA|bitcoin|ethereum|solana|dogecoin|ripple|cardano)\b`)
	prefixPattern     = regexp.MustCompile(`(?i)[$#](btc|eth|sol|doge|xrp|ada)\b`)
	lastTimePattern   = regexp.MustCompile(`(?i)last\s+(hour|day|week|month)`)
	numberTimePattern = regexp.MustCompile(`(?i)(\d+)\s*(hours?|days?|weeks?|months?)`)
)

// ExtractSearchIntent parses a free-text message into a ticker and timeframe.
// An empty ticker means no cryptocurrency was recognized; the timeframe always
// comes back as one of 1h, 24h, 7d or 30d, defaulting to 24h.
func ExtractSearchIntent(message string) models.SearchIntent {
	ticker := tickerPattern.FindString(message)
	if ticker == "" {
		ticker = prefixPattern.FindString(message)
	}

	if ticker != "" {
		if mapped, ok := tickerMapping[strings.ToLower(ticker)]; ok {
			ticker = mapped
		} else {
			ticker = strings.ToUpper(strings.TrimLeft(ticker, "$#"))
		}
	}

	timeframe := "24h"

	if m := lastTimePattern.FindStringSubmatch(message); m != nil {
		switch strings.ToLower(m[1]) {
		case "hour":
			timeframe = "1h"
		case "day":
			timeframe = "24h"
		case "week":
			timeframe = "7d"
		case "month":
			timeframe = "30d"
		}
	}

	// A numeric phrase wins over the natural-language one when both appear.
	if m := numberTimePattern.FindStringSubmatch(message); m != nil {
		value, _ := strconv.Atoi(m[1])
		unit := strings.ToLower(m[2])
		switch {
		case strings.HasPrefix(unit, "hour"):
			if value == 1 {
				timeframe = "1h"
			} else {
				timeframe = "24h"
			}
		case strings.HasPrefix(unit, "day"):
			if value == 1 {
				timeframe = "24h"
			} else {
				timeframe = "7d"
			}
		case strings.HasPrefix(unit, "week"):
			if value == 1 {
				timeframe = "7d"
			} else {
				timeframe = "30d"
			}
		case strings.HasPrefix(unit, "month"):
			timeframe = "30d"
		}
	}

	return models.SearchIntent{Ticker: ticker, Timeframe: timeframe}
}

// NormalizeTimeframe coerces any input to a valid timeframe, defaulting to 24h.
func NormalizeTimeframe(timeframe string) string {
	switch timeframe {
	case "1h", "24h", "7d", "30d":
		return timeframe
	default:
		return "24h"
	}
}

// BuildQuery composes the provider search query for an intent: OR'd symbol
// variations, phrase and author exclusions, quality filters and a since:
// lower bound derived from the timeframe.
func BuildQuery(intent models.SearchIntent) string {
	searchTerm := strings.ToUpper(intent.Ticker)
	if mapped, ok := tickerMapping[strings.ToLower(intent.Ticker)]; ok {
		searchTerm = mapped
	}

	exclusions := make([]string, 0, len(excludedPhrases))
	for _, phrase := range excludedPhrases {
		exclusions = append(exclusions, fmt.Sprintf("-%q", phrase))
	}

	// Suppress official and bot accounts whose handle contains the ticker.
	usernameExclusions := []string{
		fmt.Sprintf("-from:*%s*", searchTerm),
		fmt.Sprintf("-from:*%s*", strings.ToLower(intent.Ticker)),
		fmt.Sprintf("-from:*%s*", strings.ToUpper(intent.Ticker)),
	}

	variations := []string{
		searchTerm,
		strings.ToLower(intent.Ticker),
		"#" + searchTerm,
		"$" + searchTerm,
		"#" + strings.ToLower(intent.Ticker),
		"$" + strings.ToLower(intent.Ticker),
	}

	return fmt.Sprintf("(%s) %s %s lang:en min_faves:2 -is:bot -is:nullcast since:%s",
		strings.Join(variations, " OR "),
		strings.Join(exclusions, " "),
		strings.Join(usernameExclusions, " "),
		SinceTimestamp(intent.Timeframe, time.Now()),
	)
}

// SinceTimestamp returns the ISO-8601 lower bound for a timeframe, without
// fractional seconds.
func SinceTimestamp(timeframe string, now time.Time) string {
	var d time.Duration
	switch timeframe {
	case "1h":
		d = time.Hour
	case "24h":
		d = 24 * time.Hour
	case "7d":
		d = 7 * 24 * time.Hour
	case "30d":
		d = 30 * 24 * time.Hour
	default:
		d = 24 * time.Hour
	}
	return now.UTC().Add(-d).Format("2006-01-02T15:04:05Z")
}
