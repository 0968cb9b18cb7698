// Package ml loads pre-trained sentiment classifiers and runs predictions
// with them. Training happens elsewhere; this package only consumes the
// serialized artifacts.
package ml

import (
	"github.com/lmoretti/sentiment-be/internal/models"
	"github.com/lmoretti/sentiment-be/internal/textproc"
)

// Bundle pairs a classifier with the vectorizer it was trained with.
// Immutable once loaded.
type Bundle struct {
	Name       string
	Classifier *Classifier
	Vectorizer *Vectorizer
}

// Predict maps raw text to a sentiment label. Pure function of the text
// and the bundle; no state is retained between calls.
func (b *Bundle) Predict(text string) models.Sentiment {
	cleaned := textproc.Clean(text)
	features := b.Vectorizer.Transform(cleaned)
	if b.Classifier.predictClass(features) == b.Classifier.PositiveClass {
		return models.SentimentPositive
	}
	return models.SentimentNegative
}
