package relevance

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestFilterRelevant_DirectMention(t *testing.T) {
	items := []string{
		"BTC is testing resistance at 100k",
		"$BTC whale wallets accumulating",
		"#btc hashrate at all-time high",
		"general market is quiet today",
		"",
	}

	kept := FilterRelevant(items, "BTC")

	assert.Equal(t, 3, len(kept))
	assert.Equal(t, "BTC is testing resistance at 100k", kept[0])
}

func TestFilterRelevant_CaseInsensitive(t *testing.T) {
	kept := FilterRelevant([]string{"btc miners capitulating"}, "BTC")
	assert.Equal(t, 1, len(kept))
}

func TestFilterRelevant_DropsOtherTickers(t *testing.T) {
	// an item about ETH alone is irrelevant when querying BTC
	kept := FilterRelevant([]string{"ETH staking yields are rising"}, "BTC")
	assert.Equal(t, 0, len(kept))
}

func TestFilterRelevant_CrossTickerRelationship(t *testing.T) {
	items := []string{
		"ETH upgrade expected to impact BTC dominance",
		"SOL outage may affect BTC sentiment",
		"DOGE rally could influence BTC retail flows",
		"strong correlation between ETH and BTC this quarter",
		"the relationship between XRP and BTC is weakening",
		"ETH is just mooning on its own",
	}

	kept := FilterRelevant(items, "BTC")

	assert.Equal(t, 5, len(kept))
}

func TestFilterRelevant_NoWordBoundaryFalsePositive(t *testing.T) {
	// "ADAPTER" must not count as an ADA mention
	kept := FilterRelevant([]string{"new ADAPTER pattern for exchanges"}, "ADA")
	assert.Equal(t, 0, len(kept))
}
