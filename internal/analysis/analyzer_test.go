package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/clauselens/clauselens/internal/analysis/summarize"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
)

// contractText has four well-formed paragraphs, so segmentation yields four
// clauses.
const contractText = `The supplier shall deliver all goods within thirty days of order.

Payment is due within fifteen days of invoice receipt by the customer.

Either party may terminate this zebra agreement with ninety days notice.

This agreement is governed by the laws of the state of Delaware.`

type fakeLLM struct {
	mu         sync.Mutex
	failClause string //fail clause prompts containing this substring; "*" fails all
}

func (f *fakeLLM) Generate(_ context.Context, _, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx := strings.Index(prompt, "TARGET CLAUSE:"); idx >= 0 {
		target := prompt[idx:] //neighbor context precedes the target section
		if f.failClause == "*" || (f.failClause != "" && strings.Contains(target, f.failClause)) {
			return "", errors.New("injected clause failure")
		}
		return "clause summary", nil
	}
	return "document summary text", nil
}

type countingClassifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingClassifier) Classify(_ context.Context, clauses []string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	labels := make([]string, len(clauses))
	for i := range labels {
		labels[i] = "Other"
	}
	return labels, nil
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]commonModels.Clause
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]commonModels.Clause)}
}

func (c *mapCache) Get(_ context.Context, hash string) ([]commonModels.Clause, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clauses, found := c.entries[hash]
	return clauses, found
}

func (c *mapCache) Put(_ context.Context, hash string, clauses []commonModels.Clause) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash] = clauses
	return nil
}

type noopRetriever struct {
	indexErr error
}

func (r *noopRetriever) Index(context.Context, string, []commonModels.Clause) error {
	return r.indexErr
}

func (r *noopRetriever) Retrieve(context.Context, string, string, int) []vectorDB.ScoredClause {
	return nil
}

func (r *noopRetriever) RetrieveStrict(context.Context, string, string, int) ([]vectorDB.ScoredClause, error) {
	return nil, nil
}

func writeTestDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func newTestPipeline(llm *fakeLLM, classifier *countingClassifier, cache jobModel.ClauseCache) Pipeline {
	retriever := &noopRetriever{}
	return NewPipeline(PipelineConfig{
		Classifier: classifier,
		Cache:      cache,
		Retriever:  retriever,
		Summarizer: summarize.NewSummarizer(llm, retriever),
	})
}

func testJob(path string) jobModel.AnalysisJob {
	return jobModel.AnalysisJob{
		Id:           "job-1",
		DocumentId:   "hash-1",
		DocumentPath: path,
		Status:       jobModel.JobStatusProcessing,
	}
}

func TestAnalyzeDocument_Completed(t *testing.T) {
	path := writeTestDoc(t, contractText)
	p := newTestPipeline(&fakeLLM{}, &countingClassifier{}, newMapCache())

	result := p.AnalyzeDocument(context.Background(), testJob(path))

	if result.Status != jobModel.JobStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s (error: %s)", result.Status, result.Error)
	}
	if result.TotalClauses != 4 {
		t.Errorf("expected 4 clauses, got %d", result.TotalClauses)
	}
	if result.FailureCount != 0 {
		t.Errorf("expected zero failures, got %d", result.FailureCount)
	}
	if result.DocumentSummary != "document summary text" {
		t.Errorf("unexpected document summary %q", result.DocumentSummary)
	}
	if result.CompletedAt.IsZero() {
		t.Error("terminal state must record completion timestamp")
	}

	for i, s := range result.ClauseSummaries {
		if s.ClauseNo != i+1 {
			t.Errorf("clause numbering broken at index %d: %d", i, s.ClauseNo)
		}
	}
}

func TestAnalyzeDocument_AllClausesFail(t *testing.T) {
	path := writeTestDoc(t, contractText)
	p := newTestPipeline(&fakeLLM{failClause: "*"}, &countingClassifier{}, newMapCache())

	result := p.AnalyzeDocument(context.Background(), testJob(path))

	if result.Status != jobModel.JobStatusFailed {
		t.Fatalf("expected FAILED, got %s", result.Status)
	}
	if result.FailureCount != result.TotalClauses {
		t.Errorf("failure count %d != total %d", result.FailureCount, result.TotalClauses)
	}
	for _, s := range result.ClauseSummaries {
		if !s.IsFailed || s.SummaryText != summarize.ClauseFallbackMessage {
			t.Errorf("failed clause %d should carry the fixed fallback, got %+v", s.ClauseNo, s)
		}
	}
}

func TestAnalyzeDocument_PartialFailure(t *testing.T) {
	path := writeTestDoc(t, contractText)
	p := newTestPipeline(&fakeLLM{failClause: "zebra"}, &countingClassifier{}, newMapCache())

	result := p.AnalyzeDocument(context.Background(), testJob(path))

	if result.Status != jobModel.JobStatusPartialFailure {
		t.Fatalf("expected PARTIAL_FAILURE, got %s", result.Status)
	}
	if result.FailureCount != 1 {
		t.Errorf("expected exactly 1 failure, got %d", result.FailureCount)
	}
}

func TestAnalyzeDocument_CacheHitSkipsClassifier(t *testing.T) {
	path := writeTestDoc(t, contractText)
	classifier := &countingClassifier{}
	cache := newMapCache()
	p := newTestPipeline(&fakeLLM{}, classifier, cache)

	first := p.AnalyzeDocument(context.Background(), testJob(path))
	if first.Status != jobModel.JobStatusCompleted {
		t.Fatalf("first run failed: %s", first.Error)
	}
	if classifier.calls != 1 {
		t.Fatalf("expected 1 classifier call on first run, got %d", classifier.calls)
	}

	second := p.AnalyzeDocument(context.Background(), testJob(path))
	if second.Status != jobModel.JobStatusCompleted {
		t.Fatalf("second run failed: %s", second.Error)
	}
	if classifier.calls != 1 {
		t.Errorf("byte-identical re-analysis must not invoke the classifier, got %d calls", classifier.calls)
	}
}

func TestAnalyzeDocument_ClassifierUnavailableFailsJob(t *testing.T) {
	path := writeTestDoc(t, contractText)
	p := newTestPipeline(&fakeLLM{}, &countingClassifier{err: errors.New("inference service down")}, newMapCache())

	result := p.AnalyzeDocument(context.Background(), testJob(path))
	if result.Status != jobModel.JobStatusFailed {
		t.Fatalf("expected FAILED, got %s", result.Status)
	}
	if result.Error == "" {
		t.Error("expected a descriptive error message")
	}
}

func TestAnalyzeDocument_TooShortText(t *testing.T) {
	path := writeTestDoc(t, "way too short")
	p := newTestPipeline(&fakeLLM{}, &countingClassifier{}, newMapCache())

	result := p.AnalyzeDocument(context.Background(), testJob(path))
	if result.Status != jobModel.JobStatusFailed {
		t.Fatalf("expected FAILED for too-short document, got %s", result.Status)
	}
}

func TestAnalyzeDocument_NoClauses(t *testing.T) {
	// Long enough to pass extraction but every fragment is under the clause
	// minimum length.
	short := strings.Repeat("a b c.\n\n", 12)
	path := writeTestDoc(t, short)
	p := newTestPipeline(&fakeLLM{}, &countingClassifier{}, newMapCache())

	result := p.AnalyzeDocument(context.Background(), testJob(path))
	if result.Status != jobModel.JobStatusFailed {
		t.Fatalf("expected FAILED, got %s", result.Status)
	}
	if result.Error != "No clauses available for summarization" {
		t.Errorf("unexpected error %q", result.Error)
	}
}

func TestAnalyzeDocument_DeferredMode(t *testing.T) {
	path := writeTestDoc(t, contractText)
	p := newTestPipeline(&fakeLLM{failClause: "*"}, &countingClassifier{}, newMapCache())

	job := testJob(path)
	job.Deferred = true
	result := p.AnalyzeDocument(context.Background(), job)

	if result.Status != jobModel.JobStatusCompleted {
		t.Fatalf("deferred job should complete on doc summary + index, got %s", result.Status)
	}
	if len(result.ClauseSummaries) != 0 {
		t.Errorf("deferred mode must not produce eager clause summaries, got %d", len(result.ClauseSummaries))
	}
	if result.TotalClauses != 4 {
		t.Errorf("total clauses must still reflect the available count, got %d", result.TotalClauses)
	}
}

func TestAnalyzeDocument_DeferredModeIndexFailureIsFatal(t *testing.T) {
	path := writeTestDoc(t, contractText)
	retriever := &noopRetriever{indexErr: errors.New("vector store down")}
	p := NewPipeline(PipelineConfig{
		Classifier: &countingClassifier{},
		Cache:      newMapCache(),
		Retriever:  retriever,
		Summarizer: summarize.NewSummarizer(&fakeLLM{}, retriever),
	})

	job := testJob(path)
	job.Deferred = true
	result := p.AnalyzeDocument(context.Background(), job)
	if result.Status != jobModel.JobStatusFailed {
		t.Fatalf("deferred jobs require the index, got %s", result.Status)
	}
}
