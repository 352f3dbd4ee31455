// Package ai defines the contract between the pipeline and the text
// generation backend. The backend is opaque: it receives a prompt and returns
// raw text with no structural guarantee. Everything downstream treats that
// text as untrusted.
package ai

import "context"

// Generator produces raw text for a prompt. An error from GenerateContent is
// a transport-level failure (network, quota, empty response); callers must
// not attempt repair on it, there is nothing to repair.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
