// Package content supplies the raw text samples the analysis flow
// classifies: either direct caller input or posts pulled from a remote
// feed mirror.
package content

import (
	"context"
	"errors"
)

// ErrNotConfigured is reported by the Disabled fetcher so callers can
// render the remote input mode as unavailable instead of failing hard.
var ErrNotConfigured = errors.New("feed source not configured")

// Post is a single fetched text sample. Posts have no identity or
// persistence of their own.
type Post struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Fetcher retrieves recent posts for a handle. Implementations are
// best-effort: one attempt, no retries.
type Fetcher interface {
	Fetch(ctx context.Context, handle string, count int) ([]Post, error)
}

// Disabled is the Fetcher used when no feed source is configured.
type Disabled struct{}

// Fetch always reports ErrNotConfigured.
func (Disabled) Fetch(ctx context.Context, handle string, count int) ([]Post, error) {
	return nil, ErrNotConfigured
}
