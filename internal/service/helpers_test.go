package service

import (
	"context"

	"chainchat-be/internal/repository/memory"
	"chainchat-be/pkg/chunker"
	"chainchat-be/pkg/embedding"
	"chainchat-be/pkg/llm"
)

// nopLogger keeps test output clean.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// scriptedEmbedder delegates to a real local provider until err is set,
// then fails every call. Lets a test break the embedding backend between
// ingestions.
type scriptedEmbedder struct {
	inner embedding.Provider
	err   error
	calls int
}

func newScriptedEmbedder() *scriptedEmbedder {
	return &scriptedEmbedder{inner: embedding.NewLexicalProvider(64)}
}

func (e *scriptedEmbedder) Name() string { return "scripted" }

func (e *scriptedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.inner.EmbedDocuments(ctx, texts)
}

func (e *scriptedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.inner.EmbedQuery(ctx, text)
}

// fakeLLM returns a canned answer (or error) and records the last
// message history it was handed.
type fakeLLM struct {
	answer       string
	err          error
	lastMessages []llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.lastMessages = history
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func newTestDocumentService(provider embedding.Provider) IDocumentService {
	return NewDocumentService(
		memory.NewDocumentRepository(),
		chunker.NewSplitter(100, 20),
		provider,
		nopLogger{},
	)
}
