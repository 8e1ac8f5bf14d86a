package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainchat-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mammalsText = "Cats are mammals.\n\nDogs are mammals too."

func TestAddDocumentIngestsAndPublishesIndex(t *testing.T) {
	ds := newTestDocumentService(newScriptedEmbedder())

	assert.Nil(t, ds.Index())

	res := ds.Add(context.Background(), mammalsText, "mammals.txt")

	require.True(t, res.Success)
	assert.NotEmpty(t, res.DocumentId)
	assert.Equal(t, 1, res.Chunks)

	index := ds.Index()
	require.NotNil(t, index)
	assert.Equal(t, 1, index.Len())

	sources := ds.Sources()
	assert.Equal(t, 1, sources.TotalDocuments)
	assert.Equal(t, 1, sources.TotalChunks)
	assert.Equal(t, "mammals.txt", sources.Documents[res.DocumentId].Filename)
}

func TestAddDocumentRejectsDuplicateContent(t *testing.T) {
	ds := newTestDocumentService(newScriptedEmbedder())

	first := ds.Add(context.Background(), mammalsText, "mammals.txt")
	require.True(t, first.Success)

	// Same content under another name is still the same document.
	dup := ds.Add(context.Background(), mammalsText, "renamed.txt")

	assert.False(t, dup.Success)
	assert.Equal(t, first.DocumentId, dup.DocumentId)
	assert.Zero(t, dup.Chunks)

	sources := ds.Sources()
	assert.Equal(t, 1, sources.TotalDocuments)
	assert.Equal(t, 1, sources.TotalChunks)
}

func TestAddDocumentRejectsEmptyText(t *testing.T) {
	ds := newTestDocumentService(newScriptedEmbedder())

	for _, text := range []string{"", "   \n\t  "} {
		res := ds.Add(context.Background(), text, "empty.txt")
		assert.False(t, res.Success)
		assert.Empty(t, res.DocumentId)
	}

	assert.Nil(t, ds.Index())
	assert.Zero(t, ds.Sources().TotalDocuments)
}

func TestAddDocumentRebuildsOverFullCorpus(t *testing.T) {
	ds := newTestDocumentService(newScriptedEmbedder())

	require.True(t, ds.Add(context.Background(), mammalsText, "mammals.txt").Success)
	require.True(t, ds.Add(context.Background(), "The solar system has eight planets.", "space.txt").Success)

	index := ds.Index()
	require.NotNil(t, index)
	assert.Equal(t, 2, index.Len())

	sources := ds.Sources()
	assert.Equal(t, 2, sources.TotalDocuments)
	assert.Equal(t, 2, sources.TotalChunks)
}

func TestAddDocumentKeepsPriorIndexOnRebuildFailure(t *testing.T) {
	embedder := newScriptedEmbedder()
	ds := newTestDocumentService(embedder)

	require.True(t, ds.Add(context.Background(), mammalsText, "mammals.txt").Success)
	published := ds.Index()

	embedder.err = errors.New("embedding backend unavailable")
	res := ds.Add(context.Background(), "Completely different text.", "other.txt")

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Error processing document")

	// The failed ingestion left no trace: same index, same corpus.
	assert.Same(t, published, ds.Index())
	assert.Equal(t, 1, ds.Sources().TotalDocuments)
}

func TestAddDocumentFailedIngestIsRetryable(t *testing.T) {
	embedder := newScriptedEmbedder()
	ds := newTestDocumentService(embedder)

	embedder.err = errors.New("embedding backend unavailable")
	require.False(t, ds.Add(context.Background(), mammalsText, "mammals.txt").Success)

	// The same content is not a duplicate after a failed ingest.
	embedder.err = nil
	res := ds.Add(context.Background(), mammalsText, "mammals.txt")

	assert.True(t, res.Success)
	assert.Equal(t, 1, ds.Sources().TotalDocuments)
}

func TestAddDocumentSplitsLongText(t *testing.T) {
	ds := newTestDocumentService(newScriptedEmbedder())

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("This paragraph talks about a distinct topic in some detail.\n\n")
	}
	res := ds.Add(context.Background(), sb.String(), "long.txt")

	require.True(t, res.Success)
	assert.Greater(t, res.Chunks, 1)
	assert.Equal(t, res.Chunks, ds.Index().Len())
	assert.Equal(t, res.Chunks, ds.Sources().TotalChunks)
}

func TestAddDocumentSurvivesQuotaViaFallback(t *testing.T) {
	remote := &quotaEmbedder{}
	failover := embedding.NewFailover(remote, embedding.NewLexicalProvider(64), nil)
	ds := newTestDocumentService(failover)

	res := ds.Add(context.Background(), mammalsText, "mammals.txt")

	require.True(t, res.Success)
	assert.True(t, failover.OnFallback())
	assert.Equal(t, 1, remote.calls)

	// Later ingestions never touch the remote again.
	require.True(t, ds.Add(context.Background(), "Different content entirely.", "other.txt").Success)
	assert.Equal(t, 1, remote.calls)
}

// quotaEmbedder simulates a remote provider that is permanently out of
// quota.
type quotaEmbedder struct {
	calls int
}

func (q *quotaEmbedder) Name() string { return "remote" }

func (q *quotaEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	q.calls++
	return nil, errors.New("googleapi: Error 429: quota exceeded")
}

func (q *quotaEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	q.calls++
	return nil, errors.New("googleapi: Error 429: quota exceeded")
}
