// Package search implements the debounced location-autocomplete state
// machine: a single-slot cancellable deferred lookup where scheduling a new
// lookup atomically supersedes any unfired prior one.
package search

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	DefaultDebounceDelay = 400 * time.Millisecond

	// Grace before hiding on blur, so a pointer selection on a suggestion
	// is not pre-empted by the hide.
	hideGracePeriod = 150 * time.Millisecond

	minQueryLength = 3
)

// LookupFunc resolves a query to display strings. It must never fail: lookup
// errors degrade to an empty list.
type LookupFunc func(ctx context.Context, query string) []string

// State is a snapshot of the autocomplete state for rendering.
type State struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Searching   bool     `json:"searching"`
	Visible     bool     `json:"visible"`
}

// Controller coalesces rapid keystrokes into at most one outstanding lookup
// per quiet period. The generation counter guarantees that only the most
// recently scheduled lookup may publish its result, even if an older one has
// already fired and is waiting on the network.
type Controller struct {
	lookup LookupFunc
	delay  time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	hideTimer *time.Timer
	gen       uint64
	state     State
}

func NewController(lookup LookupFunc, delay time.Duration) *Controller {
	return &Controller{lookup: lookup, delay: delay}
}

// OnQueryChange records a keystroke. Queries shorter than three characters
// clear everything immediately and cancel any pending lookup; longer queries
// mark the search in flight and (re)schedule the lookup after the quiet
// period.
func (c *Controller) OnQueryChange(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Query = text
	c.gen++
	c.stopTimerLocked()

	if utf8.RuneCountInString(text) < minQueryLength {
		c.state.Suggestions = nil
		c.state.Searching = false
		c.state.Visible = false
		return
	}

	c.state.Searching = true
	c.state.Visible = true

	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(gen)
	})
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	// Look up whatever the query is at fire time.
	query := c.state.Query
	c.mu.Unlock()

	results := c.lookup(context.Background(), query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return // superseded while the lookup was in flight
	}
	c.state.Suggestions = results
	c.state.Searching = false
	if len(results) > 0 {
		c.state.Visible = true
	}
}

// Select commits a suggestion: the query becomes exactly that string and the
// suggestion list is cleared and hidden. Idempotent.
func (c *Controller) Select(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.stopTimerLocked()
	c.state = State{Query: value}
}

// OnBlur hides the suggestions after a short grace period.
func (c *Controller) OnBlur() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	c.hideTimer = time.AfterFunc(hideGracePeriod, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state.Visible = false
	})
}

// Reset discards all transient state. Used when the settings form opens or
// closes and when the profile changes.
func (c *Controller) Reset(initialQuery string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.stopTimerLocked()
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	c.state = State{Query: initialQuery}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := c.state
	snapshot.Suggestions = append([]string(nil), c.state.Suggestions...)
	return snapshot
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
