package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/chat"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
	"github.com/clauselens/clauselens/internal/job"
	"github.com/clauselens/clauselens/internal/metrics"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service  *job.Service
	pipeline analysis.Pipeline
	chat     chat.Engine

	// uploaded documents by content hash; the bytes live on local disk so
	// the registry is process-local too
	documents sync.Map
}

func InitHandlers(jobService *job.Service, pipeline analysis.Pipeline, chatEngine chat.Engine) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service:  jobService,
			pipeline: pipeline,
			chat:     chatEngine,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func registerDocument(doc commonModels.Document) {
	handlerInstance.documents.Store(doc.Id, doc)
}

func lookupDocument(id string) (commonModels.Document, bool) {
	value, found := handlerInstance.documents.Load(id)
	if !found {
		return commonModels.Document{}, false
	}
	return value.(commonModels.Document), true
}

func GetJobStatus(id string, traceId string) (result jobModel.AnalysisJob, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// CreateNewJob persists the PENDING record so polling works before any
// worker picks the job up, then queues it.
func CreateNewJob(newJob jobModel.AnalysisJob) {
	logJH.Info("To create new job", "traceId", newJob.TraceId, "jobId", newJob.Id)

	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.TraceId)
	if err := handlerInstance.service.JobStore.SaveJob(ctxC, newJob); err != nil {
		logJH.Error("Failed to persist pending job", "err", err)
	}
	handlerInstance.pushToJobChannel(newJob)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob jobModel.AnalysisJob) {

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- newJob //blocking send so the system is never overwhelmed
	logJH.Info("Queued analysis job", "jobId", newJob.Id)

	atomic.AddInt64(&h.service.RequestCount, 1)

	// Every analysis job is ingestion-grade batch work (classification +
	// many generation calls), so each one signals the dispatcher; idle
	// retirement shrinks the pool back down afterwards.
	metrics.StartDispatcherSignalCount()
	h.service.DispatcherChannel <- true
}

func newAnalysisJob(id, traceId string, doc commonModels.Document, deferred bool) jobModel.AnalysisJob {
	return jobModel.AnalysisJob{
		Id:           id,
		TraceId:      traceId,
		DocumentId:   doc.Id,
		DocumentName: doc.Name,
		DocumentPath: doc.Path,
		Status:       jobModel.JobStatusPending,
		Deferred:     deferred,
		CreatedAt:    time.Now(),
	}
}
