package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/loganlanou/phishdesk/storage"
)

// DraftStore persists snapshots of open editor sessions
type DraftStore interface {
	SaveDraft(ctx context.Context, d storage.Draft) error
	GetDraft(ctx context.Context, id string) (storage.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Registry keeps the open editor sessions. When a draft store is set, every
// saved session is snapshotted so it survives a restart.
type Registry struct {
	drafts DraftStore

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry; drafts may be nil
func NewRegistry(drafts DraftStore) *Registry {
	return &Registry{
		drafts:   drafts,
		sessions: make(map[string]*Session),
	}
}

// Track registers s and snapshots it
func (r *Registry) Track(ctx context.Context, s *Session) error {
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	return r.Persist(ctx, s)
}

// Get returns the open session with the given id, restoring it from its
// draft when it is not in memory.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		return s, nil
	}

	if r.drafts == nil {
		return nil, ErrSessionNotFound
	}

	d, err := r.drafts.GetDraft(ctx, id)
	if errors.Is(err, storage.ErrDraftNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var st State
	if err := json.Unmarshal(d.Payload, &st); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	s = restoreSession(st)

	r.mu.Lock()
	// Another request may have restored it first
	if existing, ok := r.sessions[id]; ok {
		s = existing
	} else {
		r.sessions[id] = s
	}
	r.mu.Unlock()

	slog.Debug("editor session restored from draft", "session_id", id, "mode", st.Mode)
	return s, nil
}

// Persist snapshots s. Closed sessions are forgotten instead.
func (r *Registry) Persist(ctx context.Context, s *Session) error {
	st := s.State()
	if st.Mode == ModeClosed {
		return r.Forget(ctx, s.ID())
	}
	if r.drafts == nil {
		return nil
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return r.drafts.SaveDraft(ctx, storage.Draft{
		ID:         st.ID,
		Mode:       string(st.Mode),
		TemplateID: st.TemplateID,
		Payload:    payload,
	})
}

// Forget drops the session and its draft
func (r *Registry) Forget(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if r.drafts == nil {
		return nil
	}
	return r.drafts.DeleteDraft(ctx, id)
}

// Len reports how many sessions are held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
