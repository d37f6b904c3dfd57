package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediascribe/internal/domain"
)

// SessionStore holds all live sessions. Sessions are request/session scoped
// and deliberately not persisted: restarting the process discards them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	running  map[string]bool
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: map[string]domain.Session{},
		running:  map[string]bool{},
	}
}

func (s *SessionStore) Create() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	sess := domain.Session{
		ID:        uuid.NewString(),
		State:     domain.StateIdle,
		History:   []domain.QAExchange{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.sessions[sess.ID] = sess
	return sess
}

func (s *SessionStore) Get(id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	delete(s.sessions, id)
	delete(s.running, id)
	return nil
}

// BeginPipeline marks the session's pipeline as running and resets all state
// derived from a previous upload. A fresh upload is the only way out of the
// failed state, and only one pipeline may run per session at a time.
func (s *SessionStore) BeginPipeline(id, sourceName, sourceType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if s.running[id] {
		return fmt.Errorf("%w: session %s", domain.ErrPipelineBusy, id)
	}

	sess.State = domain.StateUploading
	sess.SourceName = sourceName
	sess.SourceType = sourceType
	sess.Transcript = ""
	sess.LastError = ""
	sess.LastSummary = nil
	sess.History = []domain.QAExchange{}
	sess.PDFPath = ""
	sess.UpdatedAt = time.Now().Unix()

	s.sessions[id] = sess
	s.running[id] = true
	return nil
}

// EndPipeline clears the running flag set by BeginPipeline.
func (s *SessionStore) EndPipeline(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
}

func (s *SessionStore) SetState(id string, state domain.State) error {
	return s.update(id, func(sess *domain.Session) {
		sess.State = state
	})
}

// SetReady stores the assembled transcript and moves the session to ready.
func (s *SessionStore) SetReady(id, transcript string) error {
	return s.update(id, func(sess *domain.Session) {
		sess.State = domain.StateReady
		sess.Transcript = transcript
	})
}

// SetFailed moves the session to failed, retaining the originating error for
// display.
func (s *SessionStore) SetFailed(id string, cause error) error {
	return s.update(id, func(sess *domain.Session) {
		sess.State = domain.StateFailed
		if cause != nil {
			sess.LastError = cause.Error()
		}
	})
}

func (s *SessionStore) SetSummary(id string, sum domain.Summary) error {
	return s.update(id, func(sess *domain.Session) {
		sess.LastSummary = &sum
	})
}

func (s *SessionStore) SetPDFPath(id, path string) error {
	return s.update(id, func(sess *domain.Session) {
		sess.PDFPath = path
	})
}

func (s *SessionStore) AppendExchange(id string, ex domain.QAExchange) error {
	return s.update(id, func(sess *domain.Session) {
		sess.History = append(sess.History, ex)
	})
}

func (s *SessionStore) update(id string, fn func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	fn(&sess)
	sess.UpdatedAt = time.Now().Unix()
	s.sessions[id] = sess
	return nil
}
