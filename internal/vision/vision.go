package vision

import "context"

// Summarizer turns an inspection-report image into a short textual damage
// summary. Implementations are treated as fallible and rate-sensitive; the
// caller degrades failures instead of propagating them.
type Summarizer interface {
	SummarizeDamage(ctx context.Context, imageURL string) (string, error)
}
