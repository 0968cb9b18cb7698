package ml

import "fmt"

// Kind identifies the decision rule a serialized classifier uses.
type Kind string

const (
	// KindLinear covers logistic regression and linear SVM artifacts:
	// both reduce to a sign test on w·x + b at prediction time.
	KindLinear Kind = "linear"
	// KindNaiveBayes covers multinomial naive Bayes artifacts.
	KindNaiveBayes Kind = "naivebayes"
)

// Classifier is a trained binary decision function over its vectorizer's
// feature space. Only the fields for its Kind are populated.
type Classifier struct {
	Kind Kind

	// Linear models: decision function w·x + b, class 1 when positive.
	Weights   []float64
	Intercept float64

	// Naive Bayes: log-priors and per-feature log-likelihoods, indexed
	// by class label 0 then 1.
	ClassLogPrior  []float64
	FeatureLogProb [][]float64

	// PositiveClass records which raw class label the training data used
	// for positive sentiment, so the label convention travels with the
	// artifact instead of being assumed.
	PositiveClass int
}

// predictClass returns the raw class label (0 or 1) for a feature vector.
func (c *Classifier) predictClass(x map[int]float64) int {
	switch c.Kind {
	case KindLinear:
		score := c.Intercept
		for idx, val := range x {
			score += c.Weights[idx] * val
		}
		if score > 0 {
			return 1
		}
		return 0
	case KindNaiveBayes:
		best, bestScore := 0, 0.0
		for class := range c.ClassLogPrior {
			score := c.ClassLogPrior[class]
			for idx, val := range x {
				score += c.FeatureLogProb[class][idx] * val
			}
			if class == 0 || score > bestScore {
				best, bestScore = class, score
			}
		}
		return best
	}
	return 0
}

// validate checks a decoded classifier against its vectorizer's dimension.
func (c *Classifier) validate(features int) error {
	switch c.Kind {
	case KindLinear:
		if len(c.Weights) != features {
			return fmt.Errorf("linear classifier has %d weights for %d features", len(c.Weights), features)
		}
	case KindNaiveBayes:
		if len(c.ClassLogPrior) != 2 || len(c.FeatureLogProb) != 2 {
			return fmt.Errorf("naive bayes classifier must carry exactly 2 classes")
		}
		for class, probs := range c.FeatureLogProb {
			if len(probs) != features {
				return fmt.Errorf("naive bayes class %d has %d log-probs for %d features", class, len(probs), features)
			}
		}
	default:
		return fmt.Errorf("unknown classifier kind %q", c.Kind)
	}
	if c.PositiveClass != 0 && c.PositiveClass != 1 {
		return fmt.Errorf("classifier positive class %d is not a binary label", c.PositiveClass)
	}
	return nil
}
