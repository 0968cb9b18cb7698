package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// ModelNames is the fixed set of classifier names the service can serve.
var ModelNames = []string{"logistic", "svm", "naivebayes"}

// ArtifactPair holds the on-disk locations of a trained classifier and the
// vectorizer it was fitted with.
type ArtifactPair struct {
	ClassifierPath string
	VectorizerPath string
}

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	ModelDir     string // Base path for serialized model artifacts
	// FeedBaseURL is the base URL of the post feed mirror. Empty disables
	// the remote input mode.
	FeedBaseURL string
	JWTSecret   string
	// Models maps each model name to its artifact locations.
	Models map[string]ArtifactPair
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./sentiment.db"),
		ModelDir:     getEnv("MODEL_DIR", "./models"),
		FeedBaseURL:  getEnv("FEED_BASE_URL", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
	}

	cfg.Models = make(map[string]ArtifactPair, len(ModelNames))
	for _, name := range ModelNames {
		cfg.Models[name] = ArtifactPair{
			ClassifierPath: filepath.Join(cfg.ModelDir, name+"_model"),
			VectorizerPath: filepath.Join(cfg.ModelDir, name+"_vectorizer"),
		}
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
