package embedding

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
)

// LexicalProvider is the last-resort local implementation: a hashed
// bag-of-words vectorizer that needs no model and no network. Quality is
// well below a real embedding model, but retrieval over a small corpus
// stays functional when every remote option is gone.
type LexicalProvider struct {
	dimension    int
	tokenPattern *regexp.Regexp
}

var _ Provider = &LexicalProvider{}

func NewLexicalProvider(dimension int) *LexicalProvider {
	if dimension <= 0 {
		dimension = 512
	}
	return &LexicalProvider{
		dimension: dimension,
		// Letter runs, keeping inner apostrophes; works for Latin,
		// Hebrew, Arabic and Cyrillic scripts alike.
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
	}
}

func (p *LexicalProvider) Name() string { return "lexical" }

func (p *LexicalProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vectors = append(vectors, p.vectorize(text))
	}
	return vectors, nil
}

func (p *LexicalProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return p.vectorize(text), nil
}

// vectorize hashes each token into a fixed-size term-frequency vector
// and L2-normalizes it.
func (p *LexicalProvider) vectorize(text string) []float32 {
	vec := make([]float32, p.dimension)
	for _, token := range p.tokenPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%uint32(p.dimension)]++
	}
	return normalizeVector(vec)
}
