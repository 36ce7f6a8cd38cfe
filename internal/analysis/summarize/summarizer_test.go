package summarize

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
)

// stubLLM counts Generate calls and answers per system prompt so the map
// and reduce tiers can be told apart.
type stubLLM struct {
	mu        sync.Mutex
	calls     int
	chunkErr  error
	mergeErr  error
	failEvery int //fail every Nth chunk call when > 0
}

func (s *stubLLM) Generate(_ context.Context, systemInstruction, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	switch systemInstruction {
	case mergeSystemPrompt:
		if s.mergeErr != nil {
			return "", s.mergeErr
		}
		return "merged executive summary", nil
	case chunkSystemPrompt:
		if s.chunkErr != nil {
			return "", s.chunkErr
		}
		if s.failEvery > 0 && s.calls%s.failEvery == 0 {
			return "", errors.New("transient model failure")
		}
		return "chunk summary", nil
	default:
		return "clause summary", nil
	}
}

type stubRetriever struct {
	hits []vectorDB.ScoredClause
}

func (s *stubRetriever) Index(context.Context, string, []commonModels.Clause) error { return nil }

func (s *stubRetriever) Retrieve(context.Context, string, string, int) []vectorDB.ScoredClause {
	return s.hits
}

func (s *stubRetriever) RetrieveStrict(context.Context, string, string, int) ([]vectorDB.ScoredClause, error) {
	return s.hits, nil
}

func TestSummarizeDocument_TooShortSkipsGeneration(t *testing.T) {
	llm := &stubLLM{}
	s := NewSummarizer(llm, nil)

	got := s.SummarizeDocument(context.Background(), "ten chars.")
	if got != TooShortMessage {
		t.Errorf("expected too-short message, got %q", got)
	}
	if llm.calls != 0 {
		t.Errorf("expected zero generation calls for short text, got %d", llm.calls)
	}
}

func TestSummarizeDocument_MapReduce(t *testing.T) {
	llm := &stubLLM{}
	s := NewSummarizer(llm, nil)

	text := strings.TrimSpace(strings.Repeat("party ", 1500)) //3 chunks at 4000/200
	got := s.SummarizeDocument(context.Background(), text)
	if got != "merged executive summary" {
		t.Errorf("unexpected summary %q", got)
	}
	if llm.calls != 4 {
		t.Errorf("expected 3 map calls + 1 reduce call, got %d", llm.calls)
	}
}

func TestSummarizeDocument_AllChunksFailSkipsReduce(t *testing.T) {
	llm := &stubLLM{chunkErr: errors.New("model down")}
	s := NewSummarizer(llm, nil)

	text := strings.TrimSpace(strings.Repeat("party ", 1500))
	got := s.SummarizeDocument(context.Background(), text)
	if got != DocumentFailureMessage {
		t.Errorf("expected document failure message, got %q", got)
	}
	if llm.calls != 3 {
		t.Errorf("reduce must not run with zero chunk summaries, got %d calls", llm.calls)
	}
}

func TestSummarizeDocument_PartialChunkFailureStillMerges(t *testing.T) {
	llm := &stubLLM{failEvery: 2}
	s := NewSummarizer(llm, nil)

	text := strings.TrimSpace(strings.Repeat("party ", 1500))
	got := s.SummarizeDocument(context.Background(), text)
	if got != "merged executive summary" {
		t.Errorf("surviving chunks should still merge, got %q", got)
	}
}

func TestSummarizeDocument_MergeFailure(t *testing.T) {
	llm := &stubLLM{mergeErr: errors.New("model down")}
	s := NewSummarizer(llm, nil)

	text := strings.TrimSpace(strings.Repeat("party ", 1500))
	if got := s.SummarizeDocument(context.Background(), text); got != DocumentFailureMessage {
		t.Errorf("expected document failure message, got %q", got)
	}
}

type failingLLM struct{}

func (failingLLM) Generate(context.Context, string, string) (string, error) {
	return "", errors.New("model down")
}

func TestSummarizeClause_FallbackOnError(t *testing.T) {
	s := NewSummarizer(failingLLM{}, nil)

	summary, failed := s.SummarizeClause(context.Background(), "doc1", "Target clause text.", "", "")
	if !failed {
		t.Error("expected failed=true on generation error")
	}
	if summary != ClauseFallbackMessage {
		t.Errorf("expected fixed fallback, got %q", summary)
	}
}

func TestSummarizeClause_Success(t *testing.T) {
	s := NewSummarizer(&stubLLM{}, nil)

	summary, failed := s.SummarizeClause(context.Background(), "doc1", "Target clause text.", "prev", "next")
	if failed {
		t.Error("unexpected failure")
	}
	if summary != "clause summary" {
		t.Errorf("unexpected summary %q", summary)
	}
}

func TestRelatedContext_FiltersWindowDuplicates(t *testing.T) {
	hits := []vectorDB.ScoredClause{
		{Clause: commonModels.Clause{Text: "target"}},
		{Clause: commonModels.Clause{Text: "prev"}},
		{Clause: commonModels.Clause{Text: "a genuinely related clause"}},
	}
	s := NewSummarizer(&stubLLM{}, &stubRetriever{hits: hits})

	related := s.relatedContext(context.Background(), "doc1", "target", "prev", "next")
	if related != "a genuinely related clause" {
		t.Errorf("window duplicates should be filtered, got %q", related)
	}
}
