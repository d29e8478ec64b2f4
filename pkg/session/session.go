// Package session persists editor state between runs.
//
// A session records which document was last open, the viewport position,
// and the recent-file list, so the editor can restore its workspace on the
// next launch. Sessions are stored as JSON files in a config directory:
//   - file: File-based storage for CLI and desktop use
//
// # Usage
//
// Create a session store:
//
//	store, err := session.NewFileStore("")  // Uses ~/.config/patchbay/sessions/
//
// Manage sessions:
//
//	sess := session.New("docs/synth.patch.json")
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if sess == nil || sess.IsStale() {
//	    // Session not found or too old to restore
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")
)

// Viewport describes the visible region of the canvas.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Session stores editor workspace state.
type Session struct {
	ID          string    `json:"id"`
	Document    string    `json:"document"`
	Viewport    Viewport  `json:"viewport"`
	RecentFiles []string  `json:"recent_files,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// maxRecentFiles bounds the recent-file list.
const maxRecentFiles = 10

// IsStale returns true if the session is older than the retention window
// and should not be offered for restore.
func (s *Session) IsStale() bool {
	return time.Since(s.UpdatedAt) > DefaultRetention
}

// Touch records activity on the session.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}

// RecordFile moves path to the front of the recent-file list,
// deduplicating and trimming to the retention limit.
func (s *Session) RecordFile(path string) {
	recent := make([]string, 0, len(s.RecentFiles)+1)
	recent = append(recent, path)
	for _, p := range s.RecentFiles {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentFiles {
		recent = recent[:maxRecentFiles]
	}
	s.RecentFiles = recent
	s.Document = path
	s.Touch()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes stale sessions.
	Cleanup(ctx context.Context) error
}

// DefaultRetention is how long an untouched session is kept.
const DefaultRetention = 30 * 24 * time.Hour

// New creates a new session pointing at the given document.
func New(document string) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Document:  document,
		Viewport:  Viewport{Zoom: 1.0},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if document != "" {
		s.RecentFiles = []string{document}
	}
	return s
}
