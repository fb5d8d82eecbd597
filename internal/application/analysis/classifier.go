package analysis

import (
	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/sentiment"
)

// Classifier owns the three-way bucketing policy on top of a Scorer.
type Classifier struct {
	Scorer domain.Scorer
}

func NewClassifier(scorer domain.Scorer) Classifier {
	return Classifier{Scorer: scorer}
}

// Classify never fails; every input maps to exactly one label.
func (c Classifier) Classify(text string) domain.Label {
	return domain.LabelFor(c.Scorer.Compound(text))
}
