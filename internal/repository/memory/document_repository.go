package memory

import (
	"chainchat-be/pkg/store"

	"sync"
)

// DocumentRepository owns the in-memory corpus: the per-document
// metadata and the flat, ordered chunk list the vector index is built
// from. Documents are immutable once added and never evicted.
//
// A plain map and slice behind an RWMutex rather than a cache: the chunk
// list must keep its insertion order and the corpus must never expire.
type DocumentRepository struct {
	mu        sync.RWMutex
	documents map[string]*store.Document
	chunks    []store.Chunk
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		documents: make(map[string]*store.Document),
	}
}

// Exists reports whether a document with the given content hash is
// already in the corpus.
func (r *DocumentRepository) Exists(documentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.documents[documentID]
	return ok
}

// Add records the document and appends its chunks to the corpus.
func (r *DocumentRepository) Add(doc *store.Document, chunks []store.Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[doc.ID] = doc
	r.chunks = append(r.chunks, chunks...)
}

// Chunks returns a copy of the full ordered chunk list.
func (r *DocumentRepository) Chunks() []store.Chunk {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chunks := make([]store.Chunk, len(r.chunks))
	copy(chunks, r.chunks)
	return chunks
}

// Snapshot returns a read-only view of the corpus metadata.
func (r *DocumentRepository) Snapshot() (map[string]store.Document, int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	documents := make(map[string]store.Document, len(r.documents))
	for id, doc := range r.documents {
		documents[id] = *doc
	}
	return documents, len(r.documents), len(r.chunks)
}
