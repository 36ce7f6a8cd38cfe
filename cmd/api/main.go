package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/analysis/classify"
	"github.com/clauselens/clauselens/internal/analysis/summarize"
	"github.com/clauselens/clauselens/internal/chat"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/data/store"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
	"github.com/clauselens/clauselens/internal/handlers"
	"github.com/clauselens/clauselens/internal/job"
	"github.com/clauselens/clauselens/internal/rag"
	"github.com/clauselens/clauselens/internal/rag/embedding/googleEmbedding"
	"github.com/clauselens/clauselens/internal/rag/llm"
	"github.com/clauselens/clauselens/internal/rag/llm/gemini"
	"github.com/clauselens/clauselens/internal/rag/llm/openaiChat"
	"github.com/clauselens/clauselens/internal/rag/vectorDB/qdrantDB"
	"github.com/clauselens/clauselens/internal/server"
	"github.com/clauselens/clauselens/internal/worker"
	"github.com/clauselens/clauselens/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on the process environment")
	}

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobModel.AnalysisJob, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
		ClauseCache:       store.GetRedisClauseCache(serviceContext),
		Conversations:     store.GetRedisConversationStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil || serviceConfig.ClauseCache == nil || serviceConfig.Conversations == nil {
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.ClauseCache = store.InitInMemoryClauseCache()
		serviceConfig.Conversations = store.InitInMemoryConversationStore()
	}
	service := job.InitJobService(serviceConfig)

	vectorClient := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey)
	llmProvider := selectLLMProvider(serviceContext, logger)

	if vectorClient == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorClient != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	retriever := rag.NewRetriever(vectorClient, embeddingService)
	summarizer := summarize.NewSummarizer(llmProvider, retriever)
	classifier := classify.NewServiceClassifier(
		config.Getenv("CLASSIFIER_URL", config.ClassifierBaseURL), config.ClassifierBatchSize)

	pipeline := analysis.NewPipeline(analysis.PipelineConfig{
		Classifier: classifier,
		Cache:      serviceConfig.ClauseCache,
		Retriever:  retriever,
		Summarizer: summarizer,
	})
	chatEngine := chat.NewEngine(llmProvider, retriever, serviceConfig.Conversations)

	handlers.InitHandlers(service, pipeline, chatEngine)

	//init worker pool
	worker.InitServices(service, pipeline)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// selectLLMProvider picks the generation backend: gemini by default, openai
// when LLM_PROVIDER=openai.
func selectLLMProvider(ctx context.Context, logger *logger_i.Logger) llm.StreamingProvider {
	if config.Getenv("LLM_PROVIDER", "gemini") == "openai" {
		logger.Info("Using OpenAI chat completions for generation")
		return openaiChat.GetOpenAIClient(config.OpenAIChatModel)
	}
	return gemini.GetGeminiClient(ctx, config.GoogleAPIKey, config.GeminiModelName)
}
