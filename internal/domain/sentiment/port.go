package sentiment

import "context"

// Scorer port (compound polarity in [-1, 1] for a piece of text)
type Scorer interface {
	Compound(text string) float64
}

// UploadArchive port (optional copy of raw uploads; never results)
type UploadArchive interface {
	Archive(ctx context.Context, key string, data []byte) (string, error)
}
