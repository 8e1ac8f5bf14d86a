package store

import (
	"sync"
	"time"
)

// MemoryShape discriminates the two conversational memory variants. The
// shape a session carries must match the mode its last question was
// answered in; migration between shapes copies the transcript verbatim.
type MemoryShape string

const (
	MemoryShapeUnset  MemoryShape = ""
	MemoryShapeDirect MemoryShape = "DIRECT"
	MemoryShapeRag    MemoryShape = "RAG"
)

// Message roles as exposed through the history endpoint.
const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

// Message is a single transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Memory is the discriminated conversational memory carried by a session.
// Both shapes store the same transcript; the shape tells the answer
// pipeline which kind of response it is producing.
type Memory struct {
	Shape    MemoryShape `json:"shape"`
	Messages []Message   `json:"messages"`
}

// Session is one conversation thread. Records live for the process
// lifetime and are never evicted; unbounded growth is a known capacity
// risk for long deployments.
type Session struct {
	mu sync.Mutex

	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
	Memory       *Memory   `json:"memory"`
}

// Lock serializes turns within this session. Turns in different
// sessions proceed in parallel.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session lock.
func (s *Session) Unlock() { s.mu.Unlock() }
