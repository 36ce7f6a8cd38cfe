package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	NoAuthBypass = true //dev only - flip before exposing the API

	//analysis pipeline
	MinDocumentTextLength = 50 //below this the document is "too short to summarize"
	MinClauseLength       = 20 //segmenter drops shorter fragments as noise
	ClassifierBatchSize   = 8
	ClauseSummaryBatch    = 5 //clauses summarized concurrently per batch
	FallbackClauseLabel   = "Other"

	//map-reduce document summary
	DocChunkSize    = 4000 //characters per chunk
	DocChunkOverlap = 200

	//content hashing
	HashChunkSize = 8192

	//retrieval
	RetrievalTopK = 3

	//conversation engine
	ChatHistoryDepth  = 5 //prior messages appended to the RAG prompt
	MaxSuggestions    = 4
	TitleMaxLength    = 50
	CitationMaxLength = 200

	//versioning recorded on every ClauseSummary
	ModelVersion  = "gemini-legal-v1"
	PromptVersion = "v2.0-context-aware"

	MaxWorkerCount    int64 = 10
	MinWorkerCount    int64 = 1
	IdleWorkerTimeout       = 1 * time.Minute

	RequestsPerNewWorkerCount int64 = 10

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second //streamed chat responses are slow
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//job execution budget; individual model calls are not self-interrupting
	JobTimeout = 10 * time.Minute

	//vectorDB
	QdrantHost                          = ""
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1
	EmbeddingOutputDimensionality int32 = 1536
	DocCollectionPrefix                 = "doc_"

	//llm
	GeminiModelName              = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel         = "gemini-embedding-001"
	OpenAIChatModel              = "gpt-4o-mini"
	ModelTemperature     float32 = 0.1

	//classifier inference service
	ClassifierBaseURL = "http://localhost:8501"
	ClassifierTimeout = 30 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisJobStore          = 0
	RedisConversationStore = 1
	RedisClauseCache       = 2

	//job and conversation records expire; clause cache entries do not
	RedisJobStoreTTL          = 24 * time.Hour
	RedisConversationStoreTTL = 24 * time.Hour
	NoExpiry                  = time.Duration(0)
)

// AuthToken is the bearer token compared against incoming requests.
var AuthToken = os.Getenv("API_AUTH_TOKEN")

// GoogleAPIKey authenticates both the Gemini LLM and the embedding client.
var GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")

// Getenv returns the environment value for key, or fallback when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
