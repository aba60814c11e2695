package race

import "sync"

// Counter hands out per-course arrival ordinals.
//
// Ordinals are 1-based and strictly increasing in call order for each
// course. The counter is in-memory only: a process restart resets it, and
// callers that resume a running course must Seed it from persisted results
// first. This mirrors the single-operator model of the application; the
// mutex only matters when arrivals come in from the HTTP surface.
type Counter struct {
	mu   sync.Mutex
	next map[string]int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{next: make(map[string]int)}
}

// Reset seeds the course's counter so the next arrival gets ordinal 1.
// Called at launch time.
func (c *Counter) Reset(courseID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next[courseID] = 1
}

// Seed sets the next ordinal for a course, typically to one past the
// highest persisted ordinal after a restart.
func (c *Counter) Seed(courseID string, next int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if next < 1 {
		next = 1
	}
	c.next[courseID] = next
}

// Next returns the course's next ordinal and advances the counter.
// A course never launched through this process starts at 1.
func (c *Counter) Next(courseID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.next[courseID]
	if n < 1 {
		n = 1
	}
	c.next[courseID] = n + 1
	return n
}
