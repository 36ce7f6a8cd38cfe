package adapter

import (
	"fmt"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("jobs/%s", id),
	}
}

func ToJobResponse(job jobModel.AnalysisJob) api.JobResponse {

	var errorPtr *api.ErrorBody
	if job.Error != "" {
		errorPtr = &api.ErrorBody{
			Message: job.Error,
		}
	}

	return api.JobResponse{
		Id:              job.Id,
		DocumentId:      job.DocumentId,
		Status:          string(job.Status),
		ClauseSummaries: job.ClauseSummaries,
		DocumentSummary: job.DocumentSummary,
		FailureCount:    job.FailureCount,
		TotalClauses:    job.TotalClauses,
		Error:           errorPtr,
		CreatedAt:       job.CreatedAt,
		CompletedAt:     job.CompletedAt,
	}
}

func BadRequest(id string, message string, code int) api.JobResponse {
	return api.JobResponse{
		Id:     id,
		Status: "Error",
		Error: &api.ErrorBody{
			Code:    code,
			Message: message,
			Retry:   false,
		},
	}
}
