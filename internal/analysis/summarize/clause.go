package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/metrics"
	"github.com/clauselens/clauselens/internal/rag"
	"github.com/clauselens/clauselens/internal/rag/llm"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

// Summarizer produces clause-level and document-level summaries. Both tiers
// speak to the same generation provider; the retriever is optional context
// for the clause tier only.
type Summarizer struct {
	llm       llm.Provider
	retriever rag.Retriever
	logger    *logger_i.Logger
}

// NewSummarizer constructor.
func NewSummarizer(provider llm.Provider, retriever rag.Retriever) *Summarizer {
	return &Summarizer{
		llm:       provider,
		retriever: retriever,
		logger:    logger_i.NewLogger("Summarizer"),
	}
}

// SummarizeClause produces exactly one summary sentence for the target
// clause, using the sliding window (prev/next) plus best-effort retrieved
// context for disambiguation. Generation errors never escape: the fixed
// fallback string and failed=true come back instead, so one bad model call
// cannot abort a batch.
func (s *Summarizer) SummarizeClause(ctx context.Context, documentId, target, prev, next string) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("clause_summary", time.Since(start)) }()

	related := s.relatedContext(ctx, documentId, target, prev, next)

	prompt := fmt.Sprintf(clausePromptTemplate,
		orSentinel(prev), orSentinel(next), orSentinel(related), target)

	summary, err := s.llm.Generate(ctx, clauseSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("clause summarization failed", "error", err)
		return ClauseFallbackMessage, true
	}
	return strings.TrimSpace(summary), false
}

// relatedContext pulls semantically similar clauses from the retrieval
// index, filtered to exclude exact duplicates of the sliding window. Empty
// when the index is missing or the document id is unknown.
func (s *Summarizer) relatedContext(ctx context.Context, documentId, target, prev, next string) string {
	if s.retriever == nil || documentId == "" {
		return ""
	}

	hits := s.retriever.Retrieve(ctx, documentId, target, config.RetrievalTopK)
	var parts []string
	for _, hit := range hits {
		text := hit.Clause.Text
		if text == target || text == prev || text == next {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

func orSentinel(v string) string {
	if strings.TrimSpace(v) == "" {
		return noneSentinel
	}
	return v
}
