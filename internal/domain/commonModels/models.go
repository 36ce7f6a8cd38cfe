package commonModels

import "time"

// Document is an uploaded contract, identified by the SHA-256 of its bytes.
// Identical bytes always resolve to the same Document id across re-uploads.
type Document struct {
	Id          string    `json:"document_id"` //content hash
	Name        string    `json:"doc_name"`
	Path        string    `json:"path"`
	ContentType DocType   `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Clause is one classifiable span of contract text. ClauseNo values within a
// document form the contiguous range 1..N and never change after creation.
type Clause struct {
	ClauseNo int    `json:"clause_no"`
	Category string `json:"category"`
	Text     string `json:"clause"`
}

// ClauseSource is a citation attached to an assistant message: a trimmed
// excerpt of a retrieved clause plus its identifying metadata.
type ClauseSource struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	ClauseNo int    `json:"clause_no"`
}

type Conversation struct {
	Id           string    `json:"id"`
	UserId       string    `json:"user_id"`
	DocumentId   string    `json:"document_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

type Message struct {
	ConversationId string         `json:"conversation_id"`
	Role           MessageRole    `json:"role"`
	Content        string         `json:"content"`
	Sources        []ClauseSource `json:"sources,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
