package api

import (
	"time"

	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
)

// responses --------------------

type ErrorBody struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type UploadResponse struct {
	DocumentId   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	ContentType  string `json:"content_type"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type JobResponse struct {
	Id              string                   `json:"id" example:"job_cz109"`
	DocumentId      string                   `json:"document_id"`
	Status          string                   `json:"status"`
	ClauseSummaries []jobModel.ClauseSummary `json:"clause_summaries,omitempty"`
	DocumentSummary string                   `json:"document_summary,omitempty"`
	FailureCount    int                      `json:"failure_count"`
	TotalClauses    int                      `json:"total_clauses"`
	Error           *ErrorBody               `json:"error,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	CompletedAt     time.Time                `json:"completed_at,omitempty"`
}

type ClauseSummaryResponse struct {
	Summary  string `json:"summary"`
	IsFailed bool   `json:"is_failed"`
}

type ChatResponse struct {
	Answer         string                      `json:"answer"`
	Sources        []commonModels.ClauseSource `json:"sources,omitempty"`
	ConversationId string                      `json:"conversation_id"`
}

// StreamCompletion is the terminal marker of a streamed chat response.
type StreamCompletion struct {
	Done           bool   `json:"done"`
	ConversationId string `json:"conversation_id"`
}

type SuggestionsResponse struct {
	Questions    []string `json:"questions"`
	ContractType string   `json:"contract_type"`
}

// requests ---------------------

type AnalyzeRequest struct {
	DocumentId string `json:"document_id" validate:"required"`
	Deferred   bool   `json:"deferred,omitempty"`
}

type ClauseSummaryRequest struct {
	DocumentId string `json:"document_id"`
	Clause     string `json:"clause" validate:"required"`
	Previous   string `json:"previous,omitempty"`
	Next       string `json:"next,omitempty"`
}

type ChatRequest struct {
	DocumentId     string `json:"document_id" validate:"required"`
	Message        string `json:"message" validate:"required"`
	ConversationId string `json:"conversation_id,omitempty"`
	UserId         string `json:"user_id,omitempty"`
}

type SuggestionsRequest struct {
	DocumentId string `json:"document_id" validate:"required"`
	JobId      string `json:"job_id,omitempty"`
}
