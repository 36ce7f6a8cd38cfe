package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clauselens/clauselens/internal/adapter"
	"github.com/clauselens/clauselens/internal/adapter/utils"
	"github.com/clauselens/clauselens/internal/analysis/extract"
	"github.com/clauselens/clauselens/internal/analysis/hashing"
	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

var logRH *logger_i.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// PostUploadHandler receives a contract via multipart/form-data, stores it
// under its content hash, and returns the document id. Re-uploading
// identical bytes yields the same id and overwrites the same file.
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		const maxUploadSize = 32 << 20 //32mb
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		docName := r.FormValue("document_name")
		if docName == "" {
			docName = fileMetadata.Filename
		}

		contentType := extract.DocTypeOf(fileMetadata.Filename)
		if contentType == commonModels.ERR {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Unsupported document format")
			return
		}

		// Spool to a unique temp name first; the content hash names the
		// final file so identical bytes land on the same path.
		tempPath := filepath.Join(targetDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename))
		if errString := spoolUpload(tempPath, fileReader); errString != "" {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, errString)
			return
		}

		hash, err := hashing.HashFile(tempPath)
		if err != nil {
			_ = os.Remove(tempPath)
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Hashing error")
			return
		}

		finalPath := filepath.Join(targetDir, hash+strings.ToLower(filepath.Ext(fileMetadata.Filename)))
		if err := os.Rename(tempPath, finalPath); err != nil {
			_ = os.Remove(tempPath)
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}

		doc := commonModels.Document{
			Id:          hash,
			Name:        docName,
			Path:        finalPath,
			ContentType: contentType,
			UploadedAt:  time.Now(),
		}
		registerDocument(doc)

		writeJsonResponse(w, http.StatusOK, api.UploadResponse{
			DocumentId:   doc.Id,
			DocumentName: doc.Name,
			ContentType:  string(doc.ContentType),
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// PostAnalyzeHandler accepts an analysis request for a previously uploaded
// document and returns a job id to poll.
func PostAnalyzeHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		var requestData api.AnalyzeRequest
		defer closeBody(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.DocumentId == "" {
			logRH.Warn("Bad Analyze Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.DocumentId, "Bad Request")
			return
		}

		doc, found := lookupDocument(requestData.DocumentId)
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, requestData.DocumentId, "Document not found - upload it first")
			return
		}

		traceId := request.Context().Value(config.TRACE_ID_KEY).(string)
		newJob := newAnalysisJob(utils.GetNewUUID(), traceId, doc, requestData.Deferred)
		CreateNewJob(newJob)

		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.Id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetJobStatusHandler returns the full job record by id.
func GetJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToJobResponse(result))
	}
}

// PostClauseSummaryHandler summarizes one clause on demand: the deferred
// job mode's companion endpoint.
func PostClauseSummaryHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		var requestData api.ClauseSummaryRequest
		defer closeBody(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Clause == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request - clause text is required")
			return
		}

		summary, failed := handlerInstance.pipeline.SummarizeClause(
			request.Context(), requestData.DocumentId, requestData.Clause, requestData.Previous, requestData.Next)

		writeJsonResponse(w, http.StatusOK, api.ClauseSummaryResponse{
			Summary:  summary,
			IsFailed: failed,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

func spoolUpload(path string, src io.Reader) string {
	destinationFileWriter, err := os.Create(path)
	if err != nil {
		return "Storage error"
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, src); err != nil {
		return "Write error"
	}
	return ""
}
