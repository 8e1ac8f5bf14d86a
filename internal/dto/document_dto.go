package dto

import "time"

type AddDocumentResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DocumentId string `json:"document_id,omitempty"`
	Chunks     int    `json:"chunks,omitempty"`
}

type DocumentInfoDTO struct {
	Filename       string    `json:"filename"`
	Chunks         int       `json:"chunks"`
	CharacterCount int       `json:"character_count"`
	AddedAt        time.Time `json:"added_at"`
}

type SourcesResponse struct {
	Documents      map[string]DocumentInfoDTO `json:"documents"`
	TotalDocuments int                        `json:"total_documents"`
	TotalChunks    int                        `json:"total_chunks"`
}
