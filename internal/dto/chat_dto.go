package dto

import "time"

// Conversation modes as reported to the caller.
const (
	ModeDirectChat = "direct_chat"
	ModeRagChat    = "rag_chat"
)

type AskRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

// SourceDTO is one cited passage. Deduplicated by (filename, chunk id,
// preview) before the response is returned.
type SourceDTO struct {
	Filename       string `json:"filename"`
	ChunkId        int    `json:"chunk_id"`
	ContentPreview string `json:"content_preview"`
}

type AskResponse struct {
	Success      bool        `json:"success"`
	Answer       string      `json:"answer"`
	Message      string      `json:"message,omitempty"`
	Sources      []SourceDTO `json:"sources"`
	SessionId    string      `json:"session_id"`
	MessageCount int         `json:"message_count"`
	Mode         string      `json:"mode"`
}

type HistoryMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type HistoryResponse struct {
	SessionId    string              `json:"session_id"`
	CreatedAt    time.Time           `json:"created_at"`
	MessageCount int                 `json:"message_count"`
	Messages     []HistoryMessageDTO `json:"messages"`
}
