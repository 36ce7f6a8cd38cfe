package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/clauselens/clauselens/internal/config"
	jobmodel "github.com/clauselens/clauselens/internal/domain/jobModel"
	"github.com/clauselens/clauselens/internal/metrics"
)

// executeJob drives one analysis job through its lifecycle: mark it
// PROCESSING, run the pipeline, persist the terminal state the pipeline
// returns. The pipeline never panics through here.
func executeJob(job jobmodel.AnalysisJob) {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()

	log := logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusProcessing
	job.StartedAt = time.Now()
	saveJobState(ctx, job)

	job = _pipeline.AnalyzeDocument(ctx, job)

	saveJobState(ctx, job)
	log.Info("Job finished", "status", job.Status)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.AnalysisJob) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to persist job state", "err", err)
	}
}
