package service

// KBService is the read API over the knowledge store. All operations embed
// the query once and scan the full record set; rows with missing, zero-norm
// or wrong-dimension embeddings are skipped, never scored.
type KBService interface {
	// BestAnswer returns an excerpt of the single highest-scoring record,
	// or NoAnswer when nothing clears the answer threshold.
	BestAnswer(question string) (string, error)
	// TopContext returns the k best "title:\ncontent" blocks joined by
	// blank lines, for use as completion context. Empty store yields "".
	TopContext(question string, k int) (string, error)
	// IsRelated reports whether any record clears the relatedness
	// threshold. Empty store is always unrelated.
	IsRelated(question string) (bool, error)
	// HelpLinks returns up to topK source URLs of records at or above the
	// link threshold, newline-joined, or the site URL when none qualify.
	HelpLinks(question string, topK int) (string, error)
}
