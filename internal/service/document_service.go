package service

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"chainchat-be/internal/dto"
	"chainchat-be/internal/pkg/logger"
	"chainchat-be/internal/repository/memory"
	"chainchat-be/pkg/chunker"
	"chainchat-be/pkg/embedding"
	"chainchat-be/pkg/store"
	"chainchat-be/pkg/vectorstore"
)

// IDocumentService owns the knowledge base: ingestion, deduplication and
// the vector index lifecycle. Per the error-handling contract, Add
// converts every internal failure into a structured response instead of
// returning an error.
type IDocumentService interface {
	Add(ctx context.Context, text, filename string) *dto.AddDocumentResponse
	Sources() *dto.SourcesResponse

	// Index returns the currently published vector index, or nil before
	// the first successful ingestion. The returned index is an immutable
	// snapshot.
	Index() *vectorstore.Index
}

type documentService struct {
	repo       *memory.DocumentRepository
	splitter   *chunker.Splitter
	embeddings embedding.Provider
	sysLogger  logger.ILogger

	// ingestMu serializes ingestion and rebuild; readers go through the
	// atomic index pointer and are never blocked by an in-flight rebuild.
	ingestMu sync.Mutex
	index    atomic.Pointer[vectorstore.Index]
}

func NewDocumentService(
	repo *memory.DocumentRepository,
	splitter *chunker.Splitter,
	embeddings embedding.Provider,
	sysLogger logger.ILogger,
) IDocumentService {
	return &documentService{
		repo:       repo,
		splitter:   splitter,
		embeddings: embeddings,
		sysLogger:  sysLogger,
	}
}

func (ds *documentService) Add(ctx context.Context, text, filename string) *dto.AddDocumentResponse {
	if strings.TrimSpace(text) == "" {
		return &dto.AddDocumentResponse{
			Success: false,
			Message: ErrEmptyDocument.Error(),
		}
	}

	documentID := fmt.Sprintf("%x", md5.Sum([]byte(text)))

	ds.ingestMu.Lock()
	defer ds.ingestMu.Unlock()

	if ds.repo.Exists(documentID) {
		ds.sysLogger.Warn("document", "duplicate document rejected", map[string]interface{}{
			"document_id": documentID,
			"filename":    filename,
		})
		return &dto.AddDocumentResponse{
			Success:    false,
			Message:    ErrDuplicateDocument.Error(),
			DocumentId: documentID,
		}
	}

	pieces := ds.splitter.Split(text)
	if len(pieces) == 0 {
		return &dto.AddDocumentResponse{
			Success: false,
			Message: ErrEmptyDocument.Error(),
		}
	}

	now := time.Now()
	chunks := make([]store.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = store.Chunk{
			Text:       piece,
			Index:      i,
			DocumentID: documentID,
			Filename:   filename,
			CreatedAt:  now,
		}
	}

	// Rebuild over the full corpus. The embedding calls run while only
	// the ingest mutex is held; queries keep reading the prior index.
	corpus := append(ds.repo.Chunks(), chunks...)
	index, err := vectorstore.Build(ctx, corpus, ds.embeddings)
	if err != nil {
		// The failover already retried once on the local provider; this
		// failure is fatal for the ingestion. Corpus stays untouched, the
		// prior index stays published.
		ds.sysLogger.Error("document", "vector index rebuild failed", map[string]interface{}{
			"document_id": documentID,
			"filename":    filename,
			"error":       err.Error(),
		})
		return &dto.AddDocumentResponse{
			Success: false,
			Message: fmt.Sprintf("Error processing document: %v", err),
		}
	}

	// Publish the index before the corpus record: a document listed in
	// Sources must already be searchable, never the other way round.
	ds.index.Store(index)
	ds.repo.Add(&store.Document{
		ID:             documentID,
		Filename:       filename,
		ChunkCount:     len(chunks),
		CharacterCount: len(text),
		AddedAt:        now,
	}, chunks)

	ds.sysLogger.Info("document", "document ingested", map[string]interface{}{
		"document_id": documentID,
		"filename":    filename,
		"chunks":      len(chunks),
		"provider":    ds.embeddings.Name(),
	})

	return &dto.AddDocumentResponse{
		Success:    true,
		Message:    fmt.Sprintf("Document processed into %d chunks", len(chunks)),
		DocumentId: documentID,
		Chunks:     len(chunks),
	}
}

func (ds *documentService) Sources() *dto.SourcesResponse {
	documents, totalDocuments, totalChunks := ds.repo.Snapshot()

	infos := make(map[string]dto.DocumentInfoDTO, len(documents))
	for id, doc := range documents {
		infos[id] = dto.DocumentInfoDTO{
			Filename:       doc.Filename,
			Chunks:         doc.ChunkCount,
			CharacterCount: doc.CharacterCount,
			AddedAt:        doc.AddedAt,
		}
	}

	return &dto.SourcesResponse{
		Documents:      infos,
		TotalDocuments: totalDocuments,
		TotalChunks:    totalChunks,
	}
}

func (ds *documentService) Index() *vectorstore.Index {
	return ds.index.Load()
}
