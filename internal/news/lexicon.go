// Package news scores market sentiment from headline text and scrapes
// financial news sites for fresh headlines.
package news

import (
	"strings"
)

// Lexicon is a word-list polarity scorer. Scoring is a pure function of the
// input text, so the same tick sequence always produces the same sentiment.
type Lexicon struct {
	positive map[string]float64
	negative map[string]float64
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		positive: map[string]float64{
			"gain": 0.5, "gains": 0.5, "rally": 0.7, "rallies": 0.7,
			"surge": 0.8, "surges": 0.8, "record": 0.4, "strong": 0.5,
			"beat": 0.6, "beats": 0.6, "upgrade": 0.6, "upgraded": 0.6,
			"bullish": 0.8, "growth": 0.4, "profit": 0.5, "profits": 0.5,
			"jump": 0.6, "jumps": 0.6, "recovery": 0.4, "optimism": 0.5,
			"buy": 0.3, "outperform": 0.6, "high": 0.3, "boost": 0.5,
		},
		negative: map[string]float64{
			"loss": -0.5, "losses": -0.5, "fall": -0.5, "falls": -0.5,
			"drop": -0.6, "drops": -0.6, "plunge": -0.8, "plunges": -0.8,
			"crash": -0.9, "weak": -0.5, "miss": -0.6, "misses": -0.6,
			"downgrade": -0.6, "downgraded": -0.6, "bearish": -0.8,
			"decline": -0.5, "declines": -0.5, "slump": -0.7, "fear": -0.6,
			"sell": -0.3, "underperform": -0.6, "low": -0.3, "concern": -0.4,
			"concerns": -0.4, "risk": -0.3, "tumble": -0.7, "tumbles": -0.7,
		},
	}
}

// Polarity returns a score in [-1, 1]. Text with no scored words,
// including the neutral placeholder, comes back as 0.
func (l *Lexicon) Polarity(text string) float64 {
	if text == "" {
		return 0
	}
	var sum float64
	var hits int
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()[]")
		if s, ok := l.positive[w]; ok {
			sum += s
			hits++
		} else if s, ok := l.negative[w]; ok {
			sum += s
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	score := sum / float64(hits)
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score
}
