package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/clauselens/clauselens/internal/adapter/utils"
	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/chat"
	"github.com/clauselens/clauselens/internal/rag/vectorDB"
)

const anonymousUser = "anonymous"

// PostChatHandler answers one document question synchronously, creating or
// continuing a conversation.
func PostChatHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		requestData, ok := decodeChatRequest(w, request)
		if !ok {
			return
		}

		result, err := handlerInstance.chat.Chat(
			request.Context(), requestData.UserId, requestData.DocumentId, requestData.ConversationId, requestData.Message)
		if err != nil {
			writeChatError(w, requestData, err)
			return
		}

		writeJsonResponse(w, http.StatusOK, api.ChatResponse{
			Answer:         result.Answer,
			Sources:        result.Sources,
			ConversationId: result.ConversationId,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// PostChatStreamHandler streams the answer as server-sent events and closes
// with a completion marker carrying the conversation id. The assembled
// answer is persisted by the engine only after the stream finishes.
func PostChatStreamHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		requestData, ok := decodeChatRequest(w, request)
		if !ok {
			return
		}

		flusher, canFlush := w.(http.Flusher)
		if !canFlush {
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.ConversationId, "Streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		result, err := handlerInstance.chat.ChatStream(
			request.Context(), requestData.UserId, requestData.DocumentId, requestData.ConversationId, requestData.Message,
			func(chunk string) error {
				if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonEscape(chunk)); err != nil {
					return err
				}
				flusher.Flush()
				return nil
			})
		if err != nil {
			// Headers are gone; the best we can do is an error event.
			logRH.Error("chat stream failed", "error", err)
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", jsonEscape(err.Error()))
			flusher.Flush()
			return
		}

		marker, _ := json.Marshal(api.StreamCompletion{Done: true, ConversationId: result.ConversationId})
		fmt.Fprintf(w, "event: done\ndata: %s\n\n", marker)
		flusher.Flush()
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetConversationsHandler lists the requesting user's conversations.
func GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		userId := r.URL.Query().Get("user_id")
		if userId == "" {
			userId = anonymousUser
		}

		conversations, err := handlerInstance.chat.Conversations(r.Context(), userId)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, userId, "Could not list conversations")
			return
		}
		writeJsonResponse(w, http.StatusOK, conversations)
	}
}

// GetConversationMessagesHandler returns the full ordered message history
// of one conversation.
func GetConversationMessagesHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		conversationId := utils.GetChiURLParam(r, "id")
		if conversationId == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Conversation id is required")
			return
		}

		messages, err := handlerInstance.chat.Messages(r.Context(), conversationId)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, conversationId, "Could not load messages")
			return
		}
		writeJsonResponse(w, http.StatusOK, messages)
	}
}

// PostSuggestionsHandler proposes questions about an analyzed document.
// This endpoint degrades to defaults internally and never fails on model
// errors.
func PostSuggestionsHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		var requestData api.SuggestionsRequest
		defer closeBody(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.DocumentId == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request - document_id is required")
			return
		}

		summary := ""
		if requestData.JobId != "" {
			if jobRecord, found := handlerInstance.service.JobStore.GetJob(request.Context(), requestData.JobId); found {
				summary = jobRecord.DocumentSummary
			}
		}
		clauses, _ := handlerInstance.pipeline.CachedClauses(request.Context(), requestData.DocumentId)

		questions := handlerInstance.chat.SuggestQuestions(request.Context(), summary, clauses)
		writeJsonResponse(w, http.StatusOK, api.SuggestionsResponse{
			Questions:    questions,
			ContractType: chat.ContractType(clauses),
		})
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

func decodeChatRequest(w http.ResponseWriter, request *http.Request) (api.ChatRequest, bool) {
	var requestData api.ChatRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Message == "" || requestData.DocumentId == "" {
		logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.ConversationId, "Bad Request - message and document_id are required")
		return requestData, false
	}
	if requestData.UserId == "" {
		requestData.UserId = anonymousUser
	}
	return requestData, true
}

func writeChatError(w http.ResponseWriter, requestData api.ChatRequest, err error) {
	logRH.Error("chat failed", "error", err)
	if errors.Is(err, vectorDB.ErrIndexNotFound) {
		WriteErrorResponse(w, http.StatusConflict, requestData.DocumentId, "Document is not indexed yet - analyze it first")
		return
	}
	WriteErrorResponse(w, http.StatusInternalServerError, requestData.ConversationId, "Chat processing failed")
}

// jsonEscape wraps a chunk as a JSON string so newlines survive the SSE
// framing, then strips the quotes.
func jsonEscape(s string) string {
	b, _ := json.Marshal(s)
	return string(b[1 : len(b)-1])
}
