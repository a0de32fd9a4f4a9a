package testutil

import (
	"strconv"
	"sync"
	"time"
)

// ImportTime is the instant FixedClock reports.
var ImportTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// StubClock reports a settable instant.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock at ImportTime.
func FixedClock() *StubClock {
	return NewStubClock(ImportTime)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t, e.g. to pin the name of a default export.
func (c *StubClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// RunIDs hands out import run ids "run-1", "run-2", ...
type RunIDs struct {
	mu   sync.Mutex
	next int
}

func NewRunIDs() *RunIDs {
	return &RunIDs{}
}

func (g *RunIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "run-" + strconv.Itoa(g.next)
}
