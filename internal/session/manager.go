package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/showscrub/backend/internal/models"
	"github.com/showscrub/backend/internal/transform"
)

// MaxSessions limits cached conversions to prevent memory exhaustion
const MaxSessions = 100

// SessionMaxAge is how long to keep conversions before cleanup
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep conversions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// ErrNotFound is returned for unknown or evicted conversion ids.
var ErrNotFound = errors.New("conversion not found")

// Manager caches converted documents by conversion id.
type Manager struct {
	sessions    map[string]*SessionState
	mu          sync.RWMutex
	maxSessions int
	logger      zerolog.Logger
}

// SessionState holds the conversion summary and the full result.
type SessionState struct {
	Conversion   *models.Conversion
	Result       *transform.Result // nil when the conversion failed
	CreatedAt    time.Time
	LastAccessed time.Time // Last time the conversion was read (for keep-alive)
}

// NewManager creates a manager holding at most maxSessions conversions
// (MaxSessions when maxSessions <= 0).
func NewManager(maxSessions int, logger zerolog.Logger) *Manager {
	if maxSessions <= 0 {
		maxSessions = MaxSessions
	}
	return &Manager{
		sessions:    make(map[string]*SessionState),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Add stores the outcome of one conversion under a new id and returns its summary.
// The oldest conversions are evicted first when the cache is full.
func (m *Manager) Add(fileName, encoding string, res *transform.Result, convErr error, elapsed time.Duration) *models.Conversion {
	now := time.Now()
	conv := models.NewConversion(uuid.New().String(), fileName)
	conv.Encoding = encoding
	conv.CreatedAt = now.UnixMilli()
	conv.ProcessingTimeMs = elapsed.Milliseconds()

	switch {
	case convErr != nil:
		conv.Status = models.ConversionStatusError
		conv.Error = convErr.Error()
		res = nil
	case res != nil:
		rep := &res.Report
		conv.Healthy = rep.Healthy()
		conv.OrderPass = rep.CommandOrder.Pass
		conv.ClockFound = rep.Clock.Found
		conv.ClockAdjusted = rep.Clock.Adjusted
		conv.AutoCorrected = rep.AutoCorrected
		conv.RemovedClear = rep.RemovedClear
		if rep.Counters != nil {
			conv.CountersZeroed = rep.Counters.Total()
		}
		conv.Serials = append(conv.Serials, rep.Serials...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictOldestLocked()
	m.sessions[conv.ID] = &SessionState{
		Conversion:   conv,
		Result:       res,
		CreatedAt:    now,
		LastAccessed: now,
	}
	return conv
}

// evictOldestLocked frees one slot when the cache is full. Callers hold m.mu.
func (m *Manager) evictOldestLocked() {
	for len(m.sessions) >= m.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, state := range m.sessions {
			if oldestID == "" || state.CreatedAt.Before(oldest) {
				oldestID, oldest = id, state.CreatedAt
			}
		}
		delete(m.sessions, oldestID)
		m.logger.Debug().Str("id", oldestID).Msg("Evicted oldest conversion")
	}
}

// SetArtifacts records the output file names written for a conversion.
func (m *Manager) SetArtifacts(id string, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	state.Conversion.Artifacts = append([]string(nil), names...)
	return nil
}

// CleanupOldSessions removes conversions not accessed within maxAge
// (SessionMaxAge when maxAge <= 0) and returns how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	if maxAge <= 0 {
		maxAge = SessionMaxAge
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-SessionKeepAliveWindow)

	removed := 0
	for id, state := range m.sessions {
		// Don't clean up conversions that are actively being used
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.logger.Debug().
				Str("id", id).
				Dur("idle", time.Since(state.LastAccessed).Round(time.Second)).
				Msg("Cleaned up aged conversion")
		}
	}
	return removed
}

// GetSession retrieves a conversion summary by ID.
func (m *Manager) GetSession(id string) (*models.Conversion, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Conversion, true
}

// GetResult returns the full result of a successful conversion and marks it
// as accessed.
func (m *Manager) GetResult(id string) (*transform.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok || state.Result == nil {
		return nil, ErrNotFound
	}
	state.LastAccessed = time.Now()
	return state.Result, nil
}

// TouchSession updates the last accessed time for a conversion.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// Len returns the number of cached conversions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
