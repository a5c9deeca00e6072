package state

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uwezo-ai/uwezo/models"
)

// DefaultNotificationTTL is how long a notification stays visible when never
// dismissed explicitly.
const DefaultNotificationTTL = 5 * time.Second

// Store serializes reducer applications so transitions are atomic with
// respect to each other. Construct one per test or one per process; there is
// no package-level instance.
type Store struct {
	mu    sync.RWMutex
	state AppState

	notificationTTL time.Duration
	log             *zap.SugaredLogger
}

// NewStore returns a store at the initial state. A nil logger disables the
// store's debug logging.
func NewStore(ttl time.Duration, log *zap.SugaredLogger) *Store {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{state: Initial(), notificationTTL: ttl, log: log}
}

// Dispatch applies one action atomically.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := a.(UpdateProcessingResult); ok && !s.hasResultLocked(u.ID) {
		// Updates against unknown ids are silently dropped.
		s.log.Debugw("dropping update for unknown result", "id", u.ID)
	}
	s.state = reduce(s.state, a)
}

// Snapshot returns a copy of the current state safe for the caller to keep.
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.UploadedFiles = copyFiles(s.state.UploadedFiles)
	snap.ProcessingResults = copyResults(s.state.ProcessingResults)
	snap.Notifications = copyNotifications(s.state.Notifications)
	return snap
}

// LatestResult returns the last processing result, the record "latest" is
// defined against, and false when no run has happened yet.
func (s *Store) LatestResult() (models.ProcessingResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.state.ProcessingResults) == 0 {
		return models.ProcessingResult{}, false
	}
	return s.state.ProcessingResults[len(s.state.ProcessingResults)-1], true
}

// Result returns the processing result with the given id.
func (s *Store) Result(id string) (models.ProcessingResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.ProcessingResults {
		if r.ID == id {
			return r, true
		}
	}
	return models.ProcessingResult{}, false
}

// PruneExpired dismisses notifications whose display duration elapsed before
// now. It returns how many were removed.
func (s *Store) PruneExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Notification, 0, len(s.state.Notifications))
	removed := 0
	for _, n := range s.state.Notifications {
		if now.Sub(n.Timestamp) >= s.notificationTTL {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	s.state.Notifications = kept
	return removed
}

// StartNotificationJanitor sweeps expired notifications until stop is closed.
func (s *Store) StartNotificationJanitor(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if n := s.PruneExpired(now); n > 0 {
					s.log.Debugw("notifications expired", "count", n)
				}
			}
		}
	}()
}

func (s *Store) hasResultLocked(id string) bool {
	for _, r := range s.state.ProcessingResults {
		if r.ID == id {
			return true
		}
	}
	return false
}
