package embedding

import (
	"context"
	"math"
	"strings"
)

// Gemini task types. Local providers ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider turns text into vectors. EmbedDocuments is used while
// rebuilding the vector index, EmbedQuery at retrieval time. All
// implementations return L2-normalized vectors so similarity search can
// use a plain dot product.
type Provider interface {
	Name() string
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// IsQuotaExceeded reports whether err carries a quota/rate-limit
// signature from the remote provider. This is the only failure class the
// failover recovers from; everything else is fatal for the operation.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "rate limit")
}

// normalizeVector scales a vector to unit length. Cosine similarity via
// dot product requires magnitude = 1.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
