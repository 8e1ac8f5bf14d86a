package session

import (
	"sync"
	"testing"

	"chainchat-be/internal/repository/memory"
	"chainchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(windowTurns int) *Manager {
	return NewManager(memory.NewSessionRepository(), windowTurns)
}

func TestGetOrCreateMintsIDWhenMissing(t *testing.T) {
	m := newManager(5)

	first := m.GetOrCreate("")
	second := m.GetOrCreate("")

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGetOrCreateReturnsExistingSession(t *testing.T) {
	m := newManager(5)

	created := m.GetOrCreate("abc")
	found := m.GetOrCreate("abc")

	assert.Same(t, created, found)
	assert.Nil(t, created.Memory)
	assert.Zero(t, created.MessageCount)
}

func TestGetOrCreateConcurrentSameID(t *testing.T) {
	m := newManager(5)

	const goroutines = 16
	results := make([]*store.Session, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	// Exactly one record wins the creation race; everyone gets it.
	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestEnsureMemoryShapeCreatesOnFirstUse(t *testing.T) {
	m := newManager(5)
	s := m.GetOrCreate("abc")

	m.EnsureMemoryShape(s, store.MemoryShapeDirect)

	require.NotNil(t, s.Memory)
	assert.Equal(t, store.MemoryShapeDirect, s.Memory.Shape)
	assert.Empty(t, s.Memory.Messages)
}

func TestEnsureMemoryShapeIsIdempotent(t *testing.T) {
	m := newManager(5)
	s := m.GetOrCreate("abc")

	m.EnsureMemoryShape(s, store.MemoryShapeDirect)
	m.RecordTurn(s, "hi", "hello")
	before := s.Memory

	m.EnsureMemoryShape(s, store.MemoryShapeDirect)

	assert.Same(t, before, s.Memory)
}

func TestEnsureMemoryShapeMigratesTranscript(t *testing.T) {
	m := newManager(5)
	s := m.GetOrCreate("abc")

	m.EnsureMemoryShape(s, store.MemoryShapeDirect)
	m.RecordTurn(s, "hi", "hello")
	m.RecordTurn(s, "how are you?", "fine, thanks")

	m.EnsureMemoryShape(s, store.MemoryShapeRag)

	require.NotNil(t, s.Memory)
	assert.Equal(t, store.MemoryShapeRag, s.Memory.Shape)
	require.Len(t, s.Memory.Messages, 4)
	assert.Equal(t, store.RoleHuman, s.Memory.Messages[0].Role)
	assert.Equal(t, "hi", s.Memory.Messages[0].Content)
	assert.Equal(t, "fine, thanks", s.Memory.Messages[3].Content)
	assert.Equal(t, 2, s.MessageCount)
}

func TestRecordTurnOrderingAndCount(t *testing.T) {
	m := newManager(5)
	s := m.GetOrCreate("abc")
	m.EnsureMemoryShape(s, store.MemoryShapeDirect)

	m.RecordTurn(s, "question", "answer")

	require.Len(t, s.Memory.Messages, 2)
	assert.Equal(t, store.RoleHuman, s.Memory.Messages[0].Role)
	assert.Equal(t, store.RoleAI, s.Memory.Messages[1].Role)
	assert.Equal(t, 1, s.MessageCount)
	assert.False(t, s.LastActivity.IsZero())
}

func TestContextWindowTruncatesToLastTurns(t *testing.T) {
	m := newManager(2)
	s := m.GetOrCreate("abc")
	m.EnsureMemoryShape(s, store.MemoryShapeDirect)

	m.RecordTurn(s, "q1", "a1")
	m.RecordTurn(s, "q2", "a2")
	m.RecordTurn(s, "q3", "a3")

	window := m.ContextWindow(s)

	require.Len(t, window, 4)
	assert.Equal(t, "q2", window[0].Content)
	assert.Equal(t, "a3", window[3].Content)

	// The stored transcript itself is untouched.
	assert.Len(t, s.Memory.Messages, 6)
}

func TestContextWindowIsACopy(t *testing.T) {
	m := newManager(5)
	s := m.GetOrCreate("abc")
	m.EnsureMemoryShape(s, store.MemoryShapeDirect)
	m.RecordTurn(s, "q1", "a1")

	window := m.ContextWindow(s)
	window[0].Content = "mutated"

	assert.Equal(t, "q1", s.Memory.Messages[0].Content)
}

func TestHistoryUnknownSession(t *testing.T) {
	m := newManager(5)

	_, err := m.History("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
