package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"chainchat-be/pkg/embedding"
	"chainchat-be/pkg/store"
)

// Result is one retrieval hit.
type Result struct {
	Chunk store.Chunk
	Score float32
}

// Index is a brute-force cosine-similarity index over a chunk set. An
// Index is immutable once built; the corpus owner replaces the whole
// index atomically after each ingestion, so readers always observe a
// complete snapshot.
type Index struct {
	chunks  []store.Chunk
	vectors [][]float32
}

// Build embeds every chunk with the given provider and constructs a
// fresh index. The rebuild cost is linear in the corpus size on purpose;
// ingestion is rare next to queries.
func Build(ctx context.Context, chunks []store.Chunk, provider embedding.Provider) (*Index, error) {
	if len(chunks) == 0 {
		return nil, errors.New("no chunks to index")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := provider.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("provider returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	return &Index{chunks: chunks, vectors: vectors}, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search returns the top-k chunks by cosine similarity to the query
// vector. Vectors are normalized by the providers, so a dot product is
// the similarity. Chunks with no positive similarity are excluded: after
// a mid-process provider switch the query can live in a different space
// than the index, and returning corpus-order chunks with zero scores
// would cite arbitrary passages.
func (idx *Index) Search(query []float32, k int) []Result {
	if k <= 0 {
		k = 5
	}

	results := make([]Result, 0, len(idx.chunks))
	for i := range idx.chunks {
		score := dot(idx.vectors[i], query)
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			Chunk: idx.chunks[i],
			Score: score,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// dot returns 0 for mismatched dimensions rather than panicking; a
// mid-process provider switch can leave the query and index in
// different spaces until the next rebuild.
func dot(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
