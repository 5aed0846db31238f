// pkg/ai/client.go

package ai

import "context"

// Request carries the corrected question, its retrieved context and the
// intent flags that pick the system prompt.
type Request struct {
	Question string
	Context  string
	External bool
	Binary   bool
	List     bool
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
