package models

import "time"

// Sentiment is the binary label a classifier assigns to a text sample.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// Analysis sources.
const (
	SourceText  = "text"
	SourceFeed  = "feed"
	SourceWatch = "watch"
)

// Analysis represents a single classified text sample.
type Analysis struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Model     string    `json:"model"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	CreatedAt time.Time `json:"createdAt"`
}
