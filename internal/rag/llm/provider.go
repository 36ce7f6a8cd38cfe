package llm

import "context"

// Provider is the text-generation contract shared by every call site:
// clause summaries, map-reduce chunk/merge summaries, chat answers, quick
// replies and suggested questions. Treated as unreliable - callers own
// their fallback behavior.
type Provider interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// StreamingProvider additionally yields incremental text chunks. onChunk is
// invoked for each fragment in order; a non-nil return aborts the stream.
type StreamingProvider interface {
	Provider
	GenerateStream(ctx context.Context, systemInstruction, prompt string, onChunk func(string) error) error
}
