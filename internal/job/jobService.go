package job

import (
	"github.com/clauselens/clauselens/internal/domain/jobModel"
)

// Service carries the shared job plumbing: the channel workers pull
// analysis jobs from, the dispatcher signal for scaling the pool, and the
// persistence handles.
type Service struct {
	JobChannel        chan jobModel.AnalysisJob
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	ClauseCache       jobModel.ClauseCache
	Conversations     jobModel.ConversationStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.AnalysisJob
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	ClauseCache       jobModel.ClauseCache
	Conversations     jobModel.ConversationStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		ClauseCache:       cfg.ClauseCache,
		Conversations:     cfg.Conversations,
	}
}
