package middleware

import (
	"net/http"
	"strconv"

	"github.com/clauselens/clauselens/internal/handlers"
	"github.com/clauselens/clauselens/internal/metrics"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var PostUploadHandler = Wrap(handlers.PostUploadHandler)
var PostAnalyzeHandler = Wrap(handlers.PostAnalyzeHandler)
var GetJobStatusHandler = Wrap(handlers.GetJobStatusHandler)
var PostClauseSummaryHandler = Wrap(handlers.PostClauseSummaryHandler)

var PostChatHandler = Wrap(handlers.PostChatHandler)
var PostChatStreamHandler = Wrap(handlers.PostChatStreamHandler)
var GetConversationsHandler = Wrap(handlers.GetConversationsHandler)
var GetConversationMessagesHandler = Wrap(handlers.GetConversationMessagesHandler)
var PostSuggestionsHandler = Wrap(handlers.PostSuggestionsHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails; Wrap writes the response
	}
	re = rateLimiter(re)
	return re
}
