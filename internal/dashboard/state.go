package dashboard

import (
	"sync"
	"time"

	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/orchestrator"
)

// recentEntry is one line of the dashboard's live activity feed.
type recentEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

const maxRecentEntries = 20

// state holds the Orchestrator run's live progress plus, once the run
// finishes, its final RunSummary. Reads and writes are guarded by mu since
// progress updates arrive from the Orchestrator's goroutine while HTTP
// handlers read concurrently.
type state struct {
	mu sync.RWMutex

	total   int
	current int
	message string
	done    bool

	recent []recentEntry

	summary    *orchestrator.RunSummary
	components depgraph.ComponentMap
}

func newState() *state {
	return &state{}
}

func (s *state) start(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	s.current = 0
	s.done = false
}

func (s *state) update(current int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = current
	s.message = message
	s.recent = append(s.recent, recentEntry{At: time.Now(), Message: message})
	if len(s.recent) > maxRecentEntries {
		s.recent = s.recent[len(s.recent)-maxRecentEntries:]
	}
}

func (s *state) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
}

func (s *state) setSummary(summary orchestrator.RunSummary, components depgraph.ComponentMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
	s.components = components
}

type statsResponse struct {
	Total     int    `json:"total"`
	Current   int    `json:"current"`
	Message   string `json:"message"`
	Done      bool   `json:"done"`
	HasReport bool   `json:"has_report"`
}

func (s *state) stats() statsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return statsResponse{
		Total:     s.total,
		Current:   s.current,
		Message:   s.message,
		Done:      s.done,
		HasReport: s.summary != nil,
	}
}

func (s *state) recentSnapshot() []recentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]recentEntry, len(s.recent))
	copy(out, s.recent)
	return out
}

func (s *state) snapshotSummary() (orchestrator.RunSummary, depgraph.ComponentMap, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return orchestrator.RunSummary{}, nil, false
	}
	return *s.summary, s.components, true
}
