package ports

import "context"

// TextGenerator renders a prompt through a generative-text model and returns its reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
