package manager

import (
	"sync"
	"time"

	"github.com/aliyansajid/aiforge/internal/adapters"
	"github.com/aliyansajid/aiforge/internal/entrypoint"
	"github.com/aliyansajid/aiforge/internal/manifest"
	"github.com/aliyansajid/aiforge/pkg/types"
)

// loadedState is everything a successful load resolution produces. It is
// assembled off to the side and installed atomically, so a failed reload can
// never leave the session half-replaced.
type loadedState struct {
	handle    adapters.Handle
	framework types.Framework
	strategy  string

	// Exactly one of adapter/unit drives prediction; man pins the predict
	// spec when the manifest tier won.
	adapter adapters.Adapter
	unit    entrypoint.Unit
	man     *manifest.Manifest

	modelID   string
	modelPath string
	modelDir  string
}

// Session is the one model session of the server process. It is created
// empty, populated by Load (idempotent; a reload replaces the prior handle
// only on success), and consulted by every Predict.
type Session struct {
	cfg SessionConfig

	mu sync.RWMutex
	st *loadedState // nil while unloaded

	lastErr   error
	lastTrace []types.TraceEntry
	lastDir   string

	loadsTotal uint64
	startTime  time.Time

	// lane serializes predicts on a handle that is not concurrent-safe.
	// Nil when the loaded strategy allows concurrent prediction.
	lane chan struct{}
}

// NewSession constructs an unloaded Session from cfg.
func NewSession(cfg SessionConfig) *Session {
	cfg.applyDefaults()
	return &Session{cfg: cfg, startTime: time.Now()}
}

// Ready reports whether a model is loaded and able to serve predictions.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st != nil
}

// install commits a successful load, fully replacing any prior state.
func (s *Session) install(st *loadedState, trace []types.TraceEntry) {
	var lane chan struct{}
	if st.adapter != nil && !st.adapter.ConcurrentSafe() {
		lane = make(chan struct{}, 1)
	}
	s.mu.Lock()
	s.st = st
	s.lane = lane
	s.lastErr = nil
	s.lastTrace = trace
	s.lastDir = st.modelDir
	s.loadsTotal++
	s.mu.Unlock()
}

// recordFailure retains a fatal load failure for status/debug reporting.
// The prior handle, if any, remains authoritative.
func (s *Session) recordFailure(dir string, trace []types.TraceEntry, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.lastTrace = trace
	if dir != "" {
		s.lastDir = dir
	}
	s.mu.Unlock()
}

// snapshot returns the current loaded state, or nil.
func (s *Session) snapshot() *loadedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}
