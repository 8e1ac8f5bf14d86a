package embedding

import (
	"context"
	"sync"
)

// TransitionLogger receives the fallback transition event. Satisfied by
// the application's zap logger.
type TransitionLogger interface {
	Warn(module, message string, details map[string]interface{})
}

// Failover wraps a remote primary and a local fallback provider. The
// active implementation is selected once and stays sticky: after a
// quota/rate-limit failure the wrapper switches remote → local, retries
// the failed operation once, and never attempts the remote again for the
// lifetime of the process. Non-quota failures propagate unchanged.
//
// With no primary configured (missing credential) the fallback is active
// from the start.
type Failover struct {
	mu       sync.Mutex
	primary  Provider
	fallback Provider
	onLocal  bool
	log      TransitionLogger
}

var _ Provider = &Failover{}

func NewFailover(primary, fallback Provider, log TransitionLogger) *Failover {
	return &Failover{
		primary:  primary,
		fallback: fallback,
		onLocal:  primary == nil,
		log:      log,
	}
}

// Name reports the active implementation's name.
func (f *Failover) Name() string {
	return f.active().Name()
}

// OnFallback reports whether the local implementation is active.
func (f *Failover) OnFallback() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.onLocal
}

func (f *Failover) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := f.active().EmbedDocuments(ctx, texts)
	if err != nil && f.switchOnQuota(err) {
		return f.fallback.EmbedDocuments(ctx, texts)
	}
	return vectors, err
}

func (f *Failover) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := f.active().EmbedQuery(ctx, text)
	if err != nil && f.switchOnQuota(err) {
		return f.fallback.EmbedQuery(ctx, text)
	}
	return vector, err
}

func (f *Failover) active() Provider {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onLocal {
		return f.fallback
	}
	return f.primary
}

// switchOnQuota performs the one-way transition when err matches the
// quota signature and the remote was still active. Returns true when the
// caller should retry once on the fallback.
func (f *Failover) switchOnQuota(err error) bool {
	if !IsQuotaExceeded(err) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onLocal {
		return false
	}
	f.onLocal = true
	if f.log != nil {
		f.log.Warn("embedding", "remote provider quota exceeded, switching to local fallback", map[string]interface{}{
			"primary":  f.primary.Name(),
			"fallback": f.fallback.Name(),
			"error":    err.Error(),
		})
	}
	return true
}
