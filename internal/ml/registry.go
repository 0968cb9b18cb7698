package ml

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"

	"github.com/lmoretti/sentiment-be/internal/config"
)

// Registry resolves model names to their artifact locations and decodes
// them on demand. A missing or corrupt artifact is a deployment problem,
// not something to recover from: Load surfaces it as a hard error and
// never falls back to another model.
type Registry struct {
	artifacts map[string]config.ArtifactPair
}

// NewRegistry creates a Registry over an explicit name -> artifacts map.
func NewRegistry(artifacts map[string]config.ArtifactPair) *Registry {
	return &Registry{artifacts: artifacts}
}

// Names returns the configured model names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.artifacts))
	for name := range r.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load decodes the classifier and vectorizer for a model name. Bundles
// are decoded fresh per call; nothing is cached across invocations.
func (r *Registry) Load(name string) (*Bundle, error) {
	pair, ok := r.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", name)
	}

	var clf Classifier
	if err := decodeArtifact(pair.ClassifierPath, &clf); err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}

	var vec Vectorizer
	if err := decodeArtifact(pair.VectorizerPath, &vec); err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}

	if err := vec.validate(); err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	if err := clf.validate(len(vec.Idf)); err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}

	return &Bundle{Name: name, Classifier: &clf, Vectorizer: &vec}, nil
}

func decodeArtifact(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return nil
}
