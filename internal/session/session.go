// Package session models the protected session that gates access to the
// titles and content of protected notes.
package session

import (
	"context"
	"sync/atomic"

	"notetree/internal/storage"
)

// ProtectedTitle replaces the title of a protected note while the session is
// closed.
const ProtectedTitle = "[protected]"

// Decrypter makes protected notes readable when a session is available.
type Decrypter interface {
	// DecryptNotes updates the notes in place. Unprotected notes are left
	// untouched.
	DecryptNotes(ctx context.Context, notes []*storage.Note)
	// Available reports whether a protected session is open.
	Available() bool
}

// Service is a Decrypter toggled open or closed. Cryptography happens
// outside this module; an open session passes stored titles through.
type Service struct {
	open atomic.Bool
}

// NewService creates a session service, optionally already open.
func NewService(open bool) *Service {
	s := &Service{}
	s.open.Store(open)
	return s
}

// Open makes protected notes readable.
func (s *Service) Open() { s.open.Store(true) }

// Close hides protected notes again.
func (s *Service) Close() { s.open.Store(false) }

// Available reports whether the session is open.
func (s *Service) Available() bool { return s.open.Load() }

// DecryptNotes marks protected notes unavailable and masks their titles when
// the session is closed.
func (s *Service) DecryptNotes(_ context.Context, notes []*storage.Note) {
	available := s.Available()
	for _, n := range notes {
		if n == nil || !n.IsProtected {
			continue
		}
		n.IsContentAvailable = available
		if !available {
			n.Title = ProtectedTitle
		}
	}
}
