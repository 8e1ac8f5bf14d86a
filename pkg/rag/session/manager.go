package session

import (
	"errors"
	"time"

	"chainchat-be/internal/repository/memory"
	"chainchat-be/pkg/store"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for history lookups on unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the per-session conversational memory.
type Manager struct {
	sessionRepo *memory.SessionRepository
	windowTurns int
}

// NewManager creates a session manager. windowTurns bounds the number of
// past turns handed to the model as context; the stored transcript
// itself is not truncated.
func NewManager(sessionRepo *memory.SessionRepository, windowTurns int) *Manager {
	if windowTurns <= 0 {
		windowTurns = 5
	}
	return &Manager{
		sessionRepo: sessionRepo,
		windowTurns: windowTurns,
	}
}

// GetOrCreate resolves the session for the given id, minting a random id
// when none was supplied. The first reference to an unknown id creates
// the session with empty memory and mode unset.
func (m *Manager) GetOrCreate(sessionID string) *store.Session {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	for {
		if session, found := m.sessionRepo.Get(sessionID); found {
			return session
		}
		session := &store.Session{
			ID:        sessionID,
			CreatedAt: time.Now(),
		}
		if m.sessionRepo.Add(session) {
			return session
		}
		// Lost the creation race; loop picks up the winner's record.
	}
}

// EnsureMemoryShape migrates the session's memory to the target shape.
// The transcript is copied verbatim so conversational continuity
// survives a mode switch. Requesting the current shape is a no-op.
// Caller must hold the session lock.
func (m *Manager) EnsureMemoryShape(session *store.Session, target store.MemoryShape) {
	if session.Memory != nil && session.Memory.Shape == target {
		return
	}

	migrated := &store.Memory{Shape: target}
	if session.Memory != nil {
		migrated.Messages = make([]store.Message, len(session.Memory.Messages))
		copy(migrated.Messages, session.Memory.Messages)
	}
	session.Memory = migrated
}

// RecordTurn appends the exchange to the transcript (human first, then
// AI), bumps the message count and touches the activity timestamp.
// Caller must hold the session lock.
func (m *Manager) RecordTurn(session *store.Session, humanText, aiText string) {
	session.Memory.Messages = append(session.Memory.Messages,
		store.Message{Role: store.RoleHuman, Content: humanText},
		store.Message{Role: store.RoleAI, Content: aiText},
	)
	session.MessageCount++
	session.LastActivity = time.Now()
}

// ContextWindow returns the transcript slice handed to the model: the
// last windowTurns exchanges. Caller must hold the session lock.
func (m *Manager) ContextWindow(session *store.Session) []store.Message {
	if session.Memory == nil {
		return nil
	}
	messages := session.Memory.Messages
	limit := m.windowTurns * 2
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	window := make([]store.Message, len(messages))
	copy(window, messages)
	return window
}

// History returns the session for the given id, or ErrSessionNotFound.
func (m *Manager) History(sessionID string) (*store.Session, error) {
	session, found := m.sessionRepo.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
