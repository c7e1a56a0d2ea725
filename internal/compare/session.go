package compare

import (
	"log/slog"
	"sync"

	"github.com/nconklindev/stylematch/internal/export"
	"github.com/nconklindev/stylematch/internal/types"

	"github.com/google/uuid"
)

// Session holds the most recent comparison result for one user.
// Each Run replaces the stored result; Export reads it without consuming it.
type Session struct {
	ID   string
	opts Options

	mu   sync.RWMutex
	last *types.MatchResult
}

// NewSession returns an empty session with a fresh ID.
func NewSession(opts Options) *Session {
	return &Session{
		ID:   uuid.NewString(),
		opts: opts,
	}
}

// Options returns the settings the session compares with.
func (s *Session) Options() Options {
	return s.opts
}

// Run compares the two inputs and stores the result. Failed runs and runs
// with no matches leave nothing to export.
func (s *Session) Run(primary, reference []byte, progress chan<- float64) (*types.MatchResult, error) {
	result, err := Compare(primary, reference, s.opts, progress)

	s.mu.Lock()
	s.last = nil
	if err == nil && result.Count > 0 {
		s.last = result
	}
	s.mu.Unlock()

	logger := slog.With("session", s.ID)
	if err != nil {
		logger.Warn("comparison failed", "error", err)
		return nil, err
	}
	logger.Info("comparison complete", "matches", result.Count)
	return result, nil
}

// Result returns the stored result, or nil when there is nothing to export.
func (s *Session) Result() *types.MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Export serializes the stored result in format.
func (s *Session) Export(format export.Format) (*types.ExportPayload, error) {
	return export.Export(s.Result(), format, s.opts.OutputName)
}
