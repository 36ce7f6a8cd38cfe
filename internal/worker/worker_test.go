package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
	"github.com/clauselens/clauselens/internal/job"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

// MockPipeline tracks if jobs are executed
type MockPipeline struct {
	ProcessedCount int32
}

func (m *MockPipeline) AnalyzeDocument(ctx context.Context, j jobModel.AnalysisJob) jobModel.AnalysisJob {
	atomic.AddInt32(&m.ProcessedCount, 1)
	j.Status = jobModel.JobStatusCompleted
	return j
}

func (m *MockPipeline) SummarizeClause(ctx context.Context, documentId, target, prev, next string) (string, bool) {
	return "summary", false
}

func (m *MockPipeline) CachedClauses(ctx context.Context, documentId string) ([]commonModels.Clause, bool) {
	return nil, false
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.AnalysisJob) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.AnalysisJob, bool) {
	return jobModel.AnalysisJob{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.AnalysisJob) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.AnalysisJob, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
	}
	mockPipeline := &MockPipeline{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockPipeline)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobModel.AnalysisJob{Id: "test-1"}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockPipeline.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Worker persists terminal state", func(t *testing.T) {
		var lastStatus atomic.Value
		jobSvc.JobStore = &MockJobStore{
			OnSaveJob: func(ctx context.Context, j jobModel.AnalysisJob) error {
				lastStatus.Store(j.Status)
				return nil
			},
		}

		jobSvc.JobChannel <- jobModel.AnalysisJob{Id: "test-2"}
		time.Sleep(50 * time.Millisecond)

		if got, _ := lastStatus.Load().(jobModel.JobStatus); got != jobModel.JobStatusCompleted {
			t.Errorf("Expected final save with COMPLETED, got %s", got)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 2) // Must be > 1 based on retirement logic
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.AnalysisJob),
	}
	InitServices(jobSvc, &MockPipeline{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}
