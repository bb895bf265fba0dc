// Package llm provides the completion-service boundary: a one-method
// client interface and its GenAI-backed implementation.
package llm

import "context"

// Client is the completion service seen by the pipeline. One prompt in,
// one raw text reply out. No contract on the reply's shape is enforced
// here; the protocol decoder handles arbitrary text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
