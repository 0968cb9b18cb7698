package ml

import (
	"fmt"
	"math"
	"strings"
)

// Vectorizer is a fitted tf-idf transform. Vocabulary maps a token to its
// feature index and Idf holds the per-feature inverse document frequency,
// both produced at training time. A vectorizer is only valid paired with
// the classifier it was fitted alongside.
type Vectorizer struct {
	Vocabulary map[string]int
	Idf        []float64
}

// Transform maps cleaned text to an l2-normalized sparse tf-idf vector,
// keyed by feature index. Out-of-vocabulary tokens are ignored.
func (v *Vectorizer) Transform(cleaned string) map[int]float64 {
	counts := make(map[int]float64)
	for _, token := range strings.Fields(cleaned) {
		if idx, ok := v.Vocabulary[token]; ok {
			counts[idx]++
		}
	}

	var norm float64
	for idx, tf := range counts {
		w := tf * v.Idf[idx]
		counts[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}

// validate checks the internal consistency of a decoded vectorizer.
func (v *Vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("vectorizer has an empty vocabulary")
	}
	for token, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.Idf) {
			return fmt.Errorf("vectorizer token %q has index %d outside idf vector of length %d", token, idx, len(v.Idf))
		}
	}
	return nil
}
