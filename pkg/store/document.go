package store

import "time"

// Document describes one ingested document in the knowledge base.
// Identity is the MD5 hash of the raw text, so byte-identical uploads
// collapse onto the same record.
type Document struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	ChunkCount     int       `json:"chunks"`
	CharacterCount int       `json:"character_count"`
	AddedAt        time.Time `json:"added_at"`
}

// Chunk is the unit indexed for retrieval: one bounded text segment cut
// from exactly one document. Chunks are never mutated after creation.
type Chunk struct {
	Text       string    `json:"text"`
	Index      int       `json:"chunk_id"` // sequence within the source document
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
}
