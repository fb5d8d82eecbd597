package sentiment

// Label enum
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// Compound score thresholds. Scores strictly above PositiveThreshold are
// positive, strictly below NegativeThreshold negative, anything else neutral.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// LabelFor buckets a compound polarity score into a Label.
func LabelFor(score float64) Label {
	switch {
	case score > PositiveThreshold:
		return LabelPositive
	case score < NegativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Valid reports whether l is one of the three known labels.
func (l Label) Valid() bool {
	switch l {
	case LabelPositive, LabelNegative, LabelNeutral:
		return true
	}
	return false
}

// Record is one scored row of an upload. Values are built once per row and
// never mutated afterwards.
type Record struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Sentiment Label  `json:"sentiment"`
	Timestamp string `json:"timestamp"`
}

// Counts per label, used for batch summaries and metrics.
type Counts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Total    int `json:"total"`
}

// CountLabels tallies the labels of records.
func CountLabels(records []Record) Counts {
	var c Counts
	for _, r := range records {
		switch r.Sentiment {
		case LabelPositive:
			c.Positive++
		case LabelNegative:
			c.Negative++
		case LabelNeutral:
			c.Neutral++
		}
		c.Total++
	}
	return c
}
