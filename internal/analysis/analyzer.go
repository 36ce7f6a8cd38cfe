package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clauselens/clauselens/internal/analysis/classify"
	"github.com/clauselens/clauselens/internal/analysis/extract"
	"github.com/clauselens/clauselens/internal/analysis/segment"
	"github.com/clauselens/clauselens/internal/analysis/summarize"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
	"github.com/clauselens/clauselens/internal/metrics"
	"github.com/clauselens/clauselens/internal/rag"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

// Pipeline is the document analysis pipeline: extract, segment, classify,
// index, then the two summarization tiers. One call per AnalysisJob.
type Pipeline interface {
	AnalyzeDocument(ctx context.Context, job jobModel.AnalysisJob) jobModel.AnalysisJob
	SummarizeClause(ctx context.Context, documentId, target, prev, next string) (string, bool)
	CachedClauses(ctx context.Context, documentId string) ([]commonModels.Clause, bool)
}

type pipeline struct {
	classifier classify.Classifier
	cache      jobModel.ClauseCache
	retriever  rag.Retriever
	summarizer *summarize.Summarizer
	logger     *logger_i.Logger
}

type PipelineConfig struct {
	Classifier classify.Classifier
	Cache      jobModel.ClauseCache
	Retriever  rag.Retriever
	Summarizer *summarize.Summarizer
}

func NewPipeline(cfg PipelineConfig) Pipeline {
	return &pipeline{
		classifier: cfg.Classifier,
		cache:      cfg.Cache,
		retriever:  cfg.Retriever,
		summarizer: cfg.Summarizer,
		logger:     logger_i.NewLogger("AnalysisPipeline"),
	}
}

// AnalyzeDocument runs one job to a terminal state. Failures never escape:
// the returned job carries FAILED/PARTIAL_FAILURE/COMPLETED plus the error
// message, and a panic anywhere in the pipeline is converted to FAILED.
func (p *pipeline) AnalyzeDocument(ctx context.Context, job jobModel.AnalysisJob) (result jobModel.AnalysisJob) {
	start := time.Now()
	defer func() { metrics.CaptureJobMetrics(string(result.Status), time.Since(start)) }()

	result = job
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("analysis panicked", "jobId", job.Id, "panic", r)
			result.Status = jobModel.JobStatusFailed
			result.Error = fmt.Sprintf("internal error: %v", r)
			result.CompletedAt = time.Now()
		}
	}()

	log := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "jobId", job.Id, "document", job.DocumentId)

	text, err := extract.Text(job.DocumentPath, extract.DocTypeOf(job.DocumentPath))
	if err != nil {
		return failJob(result, fmt.Sprintf("text extraction: %v", err))
	}

	clauses, err := p.clausesFor(ctx, job.DocumentId, text)
	if err != nil {
		return failJob(result, fmt.Sprintf("clause classification: %v", err))
	}
	if len(clauses) == 0 {
		return failJob(result, "No clauses available for summarization")
	}
	result.TotalClauses = len(clauses)

	// Indexing is a best-effort enhancement for the eager path; deferred
	// jobs complete on doc summary + index, so there it is required.
	indexErr := p.retriever.Index(ctx, job.DocumentId, clauses)
	if indexErr != nil {
		log.Warn("retrieval indexing failed, summaries proceed without retrieved context", "error", indexErr)
	}

	var docSummary string
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		docSummary = p.summarizer.SummarizeDocument(ctx, text)
	}()

	if !job.Deferred {
		result.ClauseSummaries, result.FailureCount = p.summarizeClauses(ctx, job.DocumentId, clauses)
	}
	wg.Wait()

	result.DocumentSummary = docSummary
	result.CompletedAt = time.Now()

	if job.Deferred {
		if indexErr != nil {
			return failJob(result, fmt.Sprintf("retrieval indexing: %v", indexErr))
		}
		result.Status = jobModel.JobStatusCompleted
		return result
	}

	result.Status = jobModel.StatusFromCounts(result.FailureCount, result.TotalClauses)
	log.Info("analysis finished", "status", result.Status, "clauses", result.TotalClauses, "failures", result.FailureCount)
	return result
}

// clausesFor returns the ordered clause list for the document content,
// consulting the content-addressed cache first. On a hit the classifier is
// never invoked.
func (p *pipeline) clausesFor(ctx context.Context, documentId, text string) ([]commonModels.Clause, error) {
	if cached, found := p.cache.Get(ctx, documentId); found {
		p.logger.Debug("clause cache hit", "document", documentId, "clauses", len(cached))
		return cached, nil
	}

	texts := segment.Split(text)
	if len(texts) == 0 {
		return nil, nil
	}

	labels, err := p.classifier.Classify(ctx, texts)
	if err != nil {
		return nil, err
	}

	clauses := make([]commonModels.Clause, len(texts))
	for i := range texts {
		clauses[i] = commonModels.Clause{
			ClauseNo: i + 1,
			Category: labels[i],
			Text:     texts[i],
		}
	}

	if err := p.cache.Put(ctx, documentId, clauses); err != nil {
		p.logger.Warn("clause cache write failed", "document", documentId, "error", err)
	}
	return clauses, nil
}

// summarizeClauses runs the clause tier: batches are sequential, clauses
// within a batch run concurrently, each clause carries its sliding window.
func (p *pipeline) summarizeClauses(ctx context.Context, documentId string, clauses []commonModels.Clause) ([]jobModel.ClauseSummary, int) {
	summaries := make([]jobModel.ClauseSummary, len(clauses))

	for batchStart := 0; batchStart < len(clauses); batchStart += config.ClauseSummaryBatch {
		batchEnd := batchStart + config.ClauseSummaryBatch
		if batchEnd > len(clauses) {
			batchEnd = len(clauses)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				summaries[i] = p.summarizeOne(ctx, documentId, clauses, i)
			}(i)
		}
		wg.Wait()
	}

	failureCount := 0
	for _, s := range summaries {
		if s.IsFailed {
			failureCount++
		}
	}
	return summaries, failureCount
}

func (p *pipeline) summarizeOne(ctx context.Context, documentId string, clauses []commonModels.Clause, i int) jobModel.ClauseSummary {
	var prev, next string
	if i > 0 {
		prev = clauses[i-1].Text
	}
	if i < len(clauses)-1 {
		next = clauses[i+1].Text
	}

	summaryText, failed := p.summarizer.SummarizeClause(ctx, documentId, clauses[i].Text, prev, next)
	return jobModel.ClauseSummary{
		ClauseNo:      clauses[i].ClauseNo,
		Category:      clauses[i].Category,
		OriginalText:  clauses[i].Text,
		SummaryText:   summaryText,
		IsFailed:      failed,
		ModelVersion:  config.ModelVersion,
		PromptVersion: config.PromptVersion,
	}
}

// SummarizeClause is the on-demand single clause entry point used by the
// deferred job mode and the clause endpoint.
func (p *pipeline) SummarizeClause(ctx context.Context, documentId, target, prev, next string) (string, bool) {
	return p.summarizer.SummarizeClause(ctx, documentId, target, prev, next)
}

// CachedClauses exposes the classified clause list for a previously
// analyzed document (suggestions, deferred clause lookups).
func (p *pipeline) CachedClauses(ctx context.Context, documentId string) ([]commonModels.Clause, bool) {
	return p.cache.Get(ctx, documentId)
}

func failJob(job jobModel.AnalysisJob, message string) jobModel.AnalysisJob {
	job.Status = jobModel.JobStatusFailed
	job.Error = message
	job.CompletedAt = time.Now()
	return job
}
