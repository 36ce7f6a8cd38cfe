package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/metrics"
)

// SummarizeDocument produces the executive summary of the full raw document
// text via map-reduce: overlapping chunks are summarized independently (a
// failed chunk is skipped, not fatal), then the chunk summaries are merged
// in one reduce call. Always returns a string - fixed messages stand in for
// the guard and total-failure cases.
func (s *Summarizer) SummarizeDocument(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if len(text) < config.MinDocumentTextLength {
		return TooShortMessage
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_summary", time.Since(start)) }()

	chunks := SplitChunks(text, config.DocChunkSize, config.DocChunkOverlap)
	chunkSummaries := s.mapChunks(ctx, chunks)

	if len(chunkSummaries) == 0 {
		s.logger.Error("all chunk summaries failed", "chunks", len(chunks))
		return DocumentFailureMessage
	}

	return s.reduce(ctx, chunkSummaries)
}

// mapChunks summarizes every chunk concurrently, preserving chunk order in
// the result and dropping failures.
func (s *Summarizer) mapChunks(ctx context.Context, chunks []string) []string {
	results := make([]string, len(chunks))
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()
			summary, err := s.llm.Generate(ctx, chunkSystemPrompt, fmt.Sprintf(chunkPromptTemplate, chunk))
			if err != nil {
				s.logger.Warn("chunk summarization failed, skipping chunk", "chunk", i, "error", err)
				return
			}
			results[i] = strings.TrimSpace(summary)
		}(i, chunk)
	}
	wg.Wait()

	summaries := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			summaries = append(summaries, r)
		}
	}
	return summaries
}

func (s *Summarizer) reduce(ctx context.Context, chunkSummaries []string) string {
	joined := "- " + strings.Join(chunkSummaries, "\n- ")
	summary, err := s.llm.Generate(ctx, mergeSystemPrompt, fmt.Sprintf(mergePromptTemplate, joined))
	if err != nil {
		s.logger.Error("merge summarization failed", "error", err)
		return DocumentFailureMessage
	}
	return strings.TrimSpace(summary)
}
