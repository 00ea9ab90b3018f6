// ABOUTME: Action lifecycle state: idle/running, poll flag, poll counter, and refresh interval.
// ABOUTME: Rendering a snapshot advances the poll counter while polling and zeroes it otherwise.
package action

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultRefresh is the refresh interval used when none is configured.
const DefaultRefresh = time.Second

// State tracks whether a long-running action is active and how many times
// the client has polled since it started. The zero value is not usable; use
// NewState.
type State struct {
	mu        sync.Mutex
	running   bool
	polling   bool
	pollCount int
	refresh   time.Duration
	runID     string
}

// NewState returns an idle State. A non-positive refresh falls back to DefaultRefresh.
func NewState(refresh time.Duration) *State {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return &State{refresh: refresh}
}

// Start moves the state to running and turns polling on. A positive refresh
// replaces the stored interval; zero keeps the previous one.
func (s *State) Start(refresh time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if refresh > 0 {
		s.refresh = refresh
	}
	s.running = true
	s.polling = true
	s.pollCount = 0
	s.runID = ulid.Make().String()
	log.Printf("component=action action=start run_id=%s refresh=%s", s.runID, s.refresh)
}

// End stops the action and polling. Ending an idle state is a no-op.
func (s *State) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Printf("component=action action=end run_id=%s polls=%d", s.runID, s.pollCount)
	}
	s.running = false
	s.polling = false
	s.pollCount = 0
}

// Running reports whether an action is active.
func (s *State) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Polling reports whether the client should keep refreshing.
func (s *State) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polling
}

// PollCount returns the current poll counter without advancing it.
func (s *State) PollCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pollCount
}

// RefreshInterval returns the stored refresh interval.
func (s *State) RefreshInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// SetRefreshInterval replaces the refresh interval. Non-positive values are ignored.
func (s *State) SetRefreshInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = d
}

// RunID returns the ID of the most recent run, or "" if none has started.
func (s *State) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Render is called once per page render. While polling it returns the
// current count and then increments it; otherwise the count is forced to 0.
func (s *State) Render() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.polling {
		s.pollCount = 0
		return Snapshot{Refresh: s.refresh, RunID: s.runID}
	}
	snap := Snapshot{
		Polling:   true,
		PollCount: s.pollCount,
		Refresh:   s.refresh,
		RunID:     s.runID,
	}
	s.pollCount++
	return snap
}

// Snapshot is the render-time view of a State.
type Snapshot struct {
	Polling   bool
	PollCount int
	Refresh   time.Duration
	RunID     string
}

// Status returns "Running" while polling and "Stopped" otherwise.
func (s Snapshot) Status() string {
	if s.Polling {
		return "Running"
	}
	return "Stopped"
}

// Directive returns the meta refresh tag for the document head, or "" when
// not polling. An empty url refreshes the current page.
func (s Snapshot) Directive(url string) string {
	if !s.Polling {
		return ""
	}
	secs := strconv.FormatFloat(s.Refresh.Seconds(), 'f', -1, 64)
	if url == "" {
		return fmt.Sprintf(`<meta http-equiv="Refresh" content="%s"/>`, secs)
	}
	return fmt.Sprintf(`<meta http-equiv="Refresh" content="%s; URL=%s"/>`, secs, url)
}
