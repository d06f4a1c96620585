package entropy

import (
	"encoding/binary"
	"sync"
	"time"
)

const (
	DefaultSampleCap     = 64
	DefaultSampleTimeout = 30 * time.Second
)

// Collector accumulates interactive samples (keystroke timings, pointer
// events) and folds them into every live buffer once the sample cap is
// reached or the timeout since the first pending sample elapses.
// Collection never blocks Source.Generate.
type Collector struct {
	mu       sync.Mutex
	cap      int
	timeout  time.Duration
	pending  []byte
	count    int
	timer    *time.Timer
	live     map[*Buffer]struct{}
	onFolded func(buffers int)
}

// NewCollector creates a collector. Non-positive values select defaults.
func NewCollector(sampleCap int, timeout time.Duration) *Collector {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}
	if timeout <= 0 {
		timeout = DefaultSampleTimeout
	}
	return &Collector{
		cap:     sampleCap,
		timeout: timeout,
		live:    make(map[*Buffer]struct{}),
	}
}

// OnFolded registers a callback invoked after each fold with the number
// of buffers that received the samples.
func (c *Collector) OnFolded(fn func(buffers int)) {
	c.mu.Lock()
	c.onFolded = fn
	c.mu.Unlock()
}

// Add records one sample. The arrival time is always recorded alongside
// the sample, so Add(nil) captures pure timing.
func (c *Collector) Add(sample []byte) {
	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(time.Now().UnixNano()))

	c.mu.Lock()
	c.pending = append(c.pending, ts[:]...)
	c.pending = append(c.pending, sample...)
	c.count++

	if c.count >= c.cap {
		c.foldLocked()
		c.mu.Unlock()
		return
	}
	if c.timer == nil {
		c.timer = time.AfterFunc(c.timeout, c.Flush)
	}
	c.mu.Unlock()
}

// Flush folds any pending samples immediately.
func (c *Collector) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.foldLocked()
}

// Pending returns the number of samples waiting to be folded.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Live returns the number of registered, unreleased buffers.
func (c *Collector) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}

func (c *Collector) foldLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.count == 0 {
		return
	}

	folded := 0
	for b := range c.live {
		if b.fold(c.pending) {
			folded++
		} else {
			delete(c.live, b)
		}
	}

	clear(c.pending)
	c.pending = c.pending[:0]
	c.count = 0

	if c.onFolded != nil {
		c.onFolded(folded)
	}
}

func (c *Collector) register(b *Buffer) {
	b.onRelease = c.unregister

	c.mu.Lock()
	c.live[b] = struct{}{}
	c.mu.Unlock()
}

func (c *Collector) unregister(b *Buffer) {
	c.mu.Lock()
	delete(c.live, b)
	c.mu.Unlock()
}
