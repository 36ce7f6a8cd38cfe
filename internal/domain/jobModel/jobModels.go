package jobModel

import (
	"context"
	"time"

	"github.com/clauselens/clauselens/internal/domain/commonModels"
)

type JobStatus string

const (
	JobStatusPending        JobStatus = "PENDING"
	JobStatusProcessing     JobStatus = "PROCESSING"
	JobStatusCompleted      JobStatus = "COMPLETED"
	JobStatusPartialFailure JobStatus = "PARTIAL_FAILURE"
	JobStatusFailed         JobStatus = "FAILED"
)

// ClauseSummary is the immutable per-clause output of one analysis job.
// IsFailed marks summaries that are placeholders for failed generation calls.
type ClauseSummary struct {
	ClauseNo      int    `json:"clause_no"`
	Category      string `json:"category"`
	OriginalText  string `json:"original_text"`
	SummaryText   string `json:"summary_text"`
	IsFailed      bool   `json:"is_failed"`
	ModelVersion  string `json:"model_version"`
	PromptVersion string `json:"prompt_version"`
}

// AnalysisJob tracks one summarization request through
// PENDING -> PROCESSING -> {COMPLETED | PARTIAL_FAILURE | FAILED}.
type AnalysisJob struct {
	Id              string          `json:"id"`
	TraceId         string          `json:"trace_id"`
	DocumentId      string          `json:"document_id"`
	DocumentName    string          `json:"document_name"`
	DocumentPath    string          `json:"document_path"`
	Status          JobStatus       `json:"status"`
	ClauseSummaries []ClauseSummary `json:"clause_summaries"`
	DocumentSummary string          `json:"document_summary,omitempty"`
	FailureCount    int             `json:"failure_count"`
	TotalClauses    int             `json:"total_clauses"`
	Error           string          `json:"error,omitempty"`
	Deferred        bool            `json:"deferred"` //clause summaries produced on demand, not eagerly
	CreatedAt       time.Time       `json:"created_at"`
	StartedAt       time.Time       `json:"started_at,omitempty"`
	CompletedAt     time.Time       `json:"completed_at,omitempty"`
}

// StatusFromCounts derives the terminal status once summarization completes.
// It is the single source of truth for the failure-count rules: zero failures
// complete, all failures fail, anything in between is a partial failure.
func StatusFromCounts(failureCount, total int) JobStatus {
	switch {
	case failureCount == 0:
		return JobStatusCompleted
	case failureCount == total:
		return JobStatusFailed
	default:
		return JobStatusPartialFailure
	}
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (AnalysisJob, bool)
	SaveJob(ctx context.Context, job AnalysisJob) error
	DeleteJob(ctx context.Context, jobID string)
}

// ClauseCache maps a document's content hash to its previously computed
// clause list. Put is an upsert - last write wins, entries never expire.
type ClauseCache interface {
	Get(ctx context.Context, contentHash string) ([]commonModels.Clause, bool)
	Put(ctx context.Context, contentHash string, clauses []commonModels.Clause) error
}

type ConversationStore interface {
	CreateConversation(ctx context.Context, conv commonModels.Conversation) error
	GetConversation(ctx context.Context, id string) (commonModels.Conversation, bool)
	ListConversations(ctx context.Context, userId string) ([]commonModels.Conversation, error)
	AppendMessage(ctx context.Context, msg commonModels.Message) error
	GetMessages(ctx context.Context, conversationId string) ([]commonModels.Message, error)
	GetRecentMessages(ctx context.Context, conversationId string, limit int) ([]commonModels.Message, error)
}
