package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/domain/jobModel"
	"github.com/clauselens/clauselens/internal/metrics"
	"github.com/clauselens/clauselens/internal/rag"
	"github.com/clauselens/clauselens/internal/rag/llm"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
	"github.com/clauselens/clauselens/pkg/logger_i"
	"github.com/google/uuid"
)

// Result is one completed exchange: the assistant answer, its clause
// citations, and the conversation it was persisted to.
type Result struct {
	Answer         string
	Sources        []commonModels.ClauseSource
	ConversationId string
}

// Engine runs multi-turn document chat: route the message, assemble
// retrieved context plus recent history, generate, persist both sides of
// the exchange.
type Engine interface {
	Chat(ctx context.Context, userId, documentId, conversationId, message string) (Result, error)
	ChatStream(ctx context.Context, userId, documentId, conversationId, message string, onChunk func(string) error) (Result, error)
	SuggestQuestions(ctx context.Context, documentSummary string, clauses []commonModels.Clause) []string
	Conversations(ctx context.Context, userId string) ([]commonModels.Conversation, error)
	Messages(ctx context.Context, conversationId string) ([]commonModels.Message, error)
}

type engine struct {
	llm           llm.StreamingProvider
	retriever     rag.Retriever
	conversations jobModel.ConversationStore
	logger        *logger_i.Logger
}

func NewEngine(provider llm.StreamingProvider, retriever rag.Retriever, conversations jobModel.ConversationStore) Engine {
	return &engine{
		llm:           provider,
		retriever:     retriever,
		conversations: conversations,
		logger:        logger_i.NewLogger("ChatEngine"),
	}
}

// ShouldUseRAG routes a message. Document keywords force retrieval and take
// precedence over any greeting match; with neither present the default is
// retrieval, over-retrieving beats under-informing.
func ShouldUseRAG(message string) bool {
	lower := strings.ToLower(message)

	for _, keyword := range documentKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	for _, greeting := range greetings {
		if strings.Contains(lower, greeting) {
			return false
		}
	}
	return true
}

func (e *engine) Chat(ctx context.Context, userId, documentId, conversationId, message string) (Result, error) {
	return e.chat(ctx, userId, documentId, conversationId, message, nil)
}

// ChatStream runs the same routing and context assembly as Chat but
// forwards generation fragments to onChunk as they arrive. The assembled
// answer is persisted only after the stream completes.
func (e *engine) ChatStream(ctx context.Context, userId, documentId, conversationId, message string, onChunk func(string) error) (Result, error) {
	return e.chat(ctx, userId, documentId, conversationId, message, onChunk)
}

func (e *engine) chat(ctx context.Context, userId, documentId, conversationId, message string, onChunk func(string) error) (Result, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chat_exchange", time.Since(start)) }()

	log := e.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document", documentId)

	conv, err := e.resolveConversation(ctx, userId, documentId, conversationId)
	if err != nil {
		return Result{}, err
	}

	// History is captured before the new user message joins it.
	history, err := e.conversations.GetRecentMessages(ctx, conv.Id, config.ChatHistoryDepth)
	if err != nil {
		log.Warn("could not load history, continuing without", "error", err)
		history = nil
	}

	now := time.Now()
	if err := e.conversations.AppendMessage(ctx, commonModels.Message{
		ConversationId: conv.Id,
		Role:           commonModels.RoleUser,
		Content:        message,
		CreatedAt:      now,
	}); err != nil {
		return Result{}, fmt.Errorf("persisting user message: %w", err)
	}

	var answer string
	var sources []commonModels.ClauseSource

	if ShouldUseRAG(message) {
		answer, sources, err = e.ragAnswer(ctx, documentId, message, history, onChunk)
		if err != nil {
			return Result{}, err
		}
	} else {
		answer = e.quickReply(ctx, message, onChunk)
	}

	if err := e.conversations.AppendMessage(ctx, commonModels.Message{
		ConversationId: conv.Id,
		Role:           commonModels.RoleAssistant,
		Content:        answer,
		Sources:        sources,
		CreatedAt:      time.Now(),
	}); err != nil {
		log.Error("could not persist assistant message", "error", err)
	}

	return Result{Answer: answer, Sources: sources, ConversationId: conv.Id}, nil
}

func (e *engine) resolveConversation(ctx context.Context, userId, documentId, conversationId string) (commonModels.Conversation, error) {
	if conversationId != "" {
		conv, found := e.conversations.GetConversation(ctx, conversationId)
		if !found {
			return commonModels.Conversation{}, fmt.Errorf("conversation %s not found", conversationId)
		}
		if conv.UserId != userId {
			return commonModels.Conversation{}, fmt.Errorf("conversation %s does not belong to requesting user", conversationId)
		}
		return conv, nil
	}

	conv := commonModels.Conversation{
		Id:         uuid.NewString(),
		UserId:     userId,
		DocumentId: documentId,
		CreatedAt:  time.Now(),
	}
	if err := e.conversations.CreateConversation(ctx, conv); err != nil {
		return commonModels.Conversation{}, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, nil
}

// ragAnswer is the strict retrieval path: a missing index is a hard error
// surfaced to the caller, never silently answered without context.
func (e *engine) ragAnswer(ctx context.Context, documentId, question string, history []commonModels.Message, onChunk func(string) error) (string, []commonModels.ClauseSource, error) {
	hits, err := e.retriever.RetrieveStrict(ctx, documentId, question, config.RetrievalTopK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieving context for document %s: %w", documentId, err)
	}

	context_ := noContextMessage
	var sources []commonModels.ClauseSource
	if len(hits) > 0 {
		context_ = formatRetrievedContext(hits)
		sources = extractSources(hits)
	}

	prompt := fmt.Sprintf(chatTemplate, context_, formatHistory(history), question)

	answer, err := e.generate(ctx, systemPrompt, prompt, onChunk)
	if err != nil {
		return "", nil, fmt.Errorf("generating chat answer: %w", err)
	}
	return strings.TrimSpace(answer), sources, nil
}

// quickReply handles greetings and small talk without document context; it
// degrades to a fixed reply rather than failing.
func (e *engine) quickReply(ctx context.Context, message string, onChunk func(string) error) string {
	answer, err := e.generate(ctx, "", fmt.Sprintf(quickReplyTemplate, message), onChunk)
	if err != nil {
		e.logger.Warn("quick reply generation failed, using fallback", "error", err)
		if onChunk != nil {
			_ = onChunk(QuickReplyFallback)
		}
		return QuickReplyFallback
	}
	return strings.TrimSpace(answer)
}

func (e *engine) generate(ctx context.Context, system, prompt string, onChunk func(string) error) (string, error) {
	if onChunk == nil {
		return e.llm.Generate(ctx, system, prompt)
	}

	var full strings.Builder
	err := e.llm.GenerateStream(ctx, system, prompt, func(chunk string) error {
		full.WriteString(chunk)
		return onChunk(chunk)
	})
	if err != nil {
		return "", err
	}
	return full.String(), nil
}

func formatRetrievedContext(hits []vectorDB.ScoredClause) string {
	parts := make([]string, len(hits))
	for i, hit := range hits {
		parts[i] = fmt.Sprintf("[Clause %d - %s]\n%s", hit.Clause.ClauseNo, hit.Clause.Category, hit.Clause.Text)
	}
	return strings.Join(parts, "\n\n")
}

func extractSources(hits []vectorDB.ScoredClause) []commonModels.ClauseSource {
	sources := make([]commonModels.ClauseSource, len(hits))
	for i, hit := range hits {
		text := hit.Clause.Text
		if len(text) > config.CitationMaxLength {
			cut := config.CitationMaxLength
			// never split a multi-byte rune at the cut point
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut] + "..."
		}
		sources[i] = commonModels.ClauseSource{
			Text:     text,
			Category: hit.Clause.Category,
			ClauseNo: hit.Clause.ClauseNo,
		}
	}
	return sources
}

func formatHistory(messages []commonModels.Message) string {
	if len(messages) == 0 {
		return noHistoryMessage
	}

	formatted := make([]string, len(messages))
	for i, msg := range messages {
		role := "User"
		if msg.Role == commonModels.RoleAssistant {
			role = "Assistant"
		}
		formatted[i] = fmt.Sprintf("%s: %s", role, msg.Content)
	}
	return strings.Join(formatted, "\n")
}

func (e *engine) Conversations(ctx context.Context, userId string) ([]commonModels.Conversation, error) {
	return e.conversations.ListConversations(ctx, userId)
}

func (e *engine) Messages(ctx context.Context, conversationId string) ([]commonModels.Message, error) {
	return e.conversations.GetMessages(ctx, conversationId)
}
