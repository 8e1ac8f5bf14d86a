package service

import (
	"errors"

	"chainchat-be/pkg/rag/session"
)

// Failure conditions surfaced by the core. Quota exhaustion is handled
// by the embedding failover where possible and only reaches the caller
// as a degraded chat answer; everything else maps onto one of these.
var (
	ErrDuplicateDocument = errors.New("document already exists in knowledge base")
	ErrEmptyDocument     = errors.New("document text is empty or could not be extracted")
	ErrSessionNotFound   = session.ErrSessionNotFound
)
