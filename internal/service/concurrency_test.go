package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"chainchat-be/internal/dto"
	"chainchat-be/internal/repository/memory"
	"chainchat-be/pkg/embedding"
	"chainchat-be/pkg/llm"
	"chainchat-be/pkg/rag/augment"
	"chainchat-be/pkg/rag/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// concurrentLLM is safe for parallel turns across sessions.
type concurrentLLM struct {
	mu     sync.Mutex
	answer string
	calls  int
}

func (c *concurrentLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.answer, nil
}

func (c *concurrentLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return c.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

// Ingestion, questions on shared and distinct sessions, and corpus reads
// all run at once. Run with -race.
func TestConcurrentIngestAndAsk(t *testing.T) {
	provider := embedding.NewLexicalProvider(64)
	documents := newTestDocumentService(provider)
	model := &concurrentLLM{answer: "Sure."}
	chat := NewChatService(
		documents,
		provider,
		model,
		session.NewManager(memory.NewSessionRepository(), 5),
		augment.New(nil),
		nopLogger{},
		6,
	)

	seed := chat.Ask(context.Background(), &dto.AskRequest{Question: "Hello"})
	require.True(t, seed.Success)
	sharedID := seed.SessionId

	const (
		ingests = 6
		askers  = 4
		turns   = 5
	)
	var wg sync.WaitGroup

	// Writer: grows the corpus while questions are in flight.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < ingests; i++ {
			text := fmt.Sprintf("Topic number %02d covers subject %02d.\n\nMore detail on subject %02d follows here.", i, i, i)
			res := documents.Add(context.Background(), text, fmt.Sprintf("doc%02d.txt", i))
			assert.True(t, res.Success)
		}
	}()

	// Reader: a document visible in Sources must already be searchable.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			listed := documents.Sources().TotalChunks
			index := documents.Index()
			if listed == 0 {
				continue
			}
			if assert.NotNil(t, index) {
				assert.GreaterOrEqual(t, index.Len(), listed)
			}
		}
	}()

	// Askers: even ids share one session, odd ids get their own.
	for a := 0; a < askers; a++ {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			sessionID := ""
			if a%2 == 0 {
				sessionID = sharedID
			}
			for i := 0; i < turns; i++ {
				res := chat.Ask(context.Background(), &dto.AskRequest{
					Question:  "Tell me about the topics covered",
					SessionId: sessionID,
				})
				assert.True(t, res.Success)
				if res.Mode == dto.ModeDirectChat {
					assert.Empty(t, res.Sources)
				}
				sessionID = res.SessionId
			}
		}(a)
	}

	wg.Wait()

	// Shared session: one seed turn plus two askers' turns, all recorded,
	// transcript strictly alternating.
	history, err := chat.History(sharedID)
	require.NoError(t, err)
	assert.Equal(t, 1+2*turns, history.MessageCount)
	require.Len(t, history.Messages, history.MessageCount*2)
	for i, msg := range history.Messages {
		if i%2 == 0 {
			assert.Equal(t, "human", msg.Role)
		} else {
			assert.Equal(t, "ai", msg.Role)
		}
	}

	// Quiesced: the published index covers the whole corpus.
	sources := documents.Sources()
	assert.Equal(t, ingests, sources.TotalDocuments)
	require.NotNil(t, documents.Index())
	assert.Equal(t, sources.TotalChunks, documents.Index().Len())
}

func TestConcurrentIngestKeepsCorpusConsistent(t *testing.T) {
	documents := newTestDocumentService(newScriptedEmbedder())

	const writers = 8
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			text := fmt.Sprintf("Writer %02d contributes a unique paragraph about subject %02d.", w, w)
			res := documents.Add(context.Background(), text, fmt.Sprintf("w%02d.txt", w))
			assert.True(t, res.Success)
		}(w)
	}
	wg.Wait()

	sources := documents.Sources()
	assert.Equal(t, writers, sources.TotalDocuments)
	assert.Equal(t, sources.TotalChunks, documents.Index().Len())
}
