// Package entropy produces key-generation entropy from a layered cascade:
// a first pass from the strongest available provider, auxiliary
// environment signals folded in with a keyed XOR, and an optional
// interactive stage that improves buffers asynchronously.
package entropy

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

const (
	Size128 = 16 // 12-word mnemonic
	Size256 = 32 // 24-word mnemonic
)

// ErrInvalidSize is returned for sizes other than Size128 or Size256.
var ErrInvalidSize = errors.New("entropy size must be 16 or 32 bytes")

const (
	domainAux         = "walletkeeper:entropy:aux:v1"
	domainInteractive = "walletkeeper:entropy:interactive:v1"
)

// Buffer is a freshly allocated entropy buffer. It stays live, and may be
// improved by a Collector, until Release is called.
type Buffer struct {
	mu        sync.Mutex
	b         []byte
	provider  string
	strength  Strength
	folds     int
	released  bool
	onRelease func(*Buffer)
}

// Bytes returns a copy of the current contents. The caller should clear
// the copy after use.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.b))
	copy(out, b.b)
	return out
}

// Len returns the buffer size in bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.b)
}

// Provider names the provider that produced the first pass.
func (b *Buffer) Provider() string { return b.provider }

// Strength reports the first-pass provider strength.
func (b *Buffer) Strength() Strength { return b.strength }

// Degraded reports whether only the non-cryptographic fallback was used.
func (b *Buffer) Degraded() bool { return b.strength == StrengthDegraded }

// InteractiveFolds reports how many interactive folds were applied.
func (b *Buffer) InteractiveFolds() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.folds
}

// Release zeroes the buffer and detaches it from any collector.
func (b *Buffer) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	clear(b.b)
	b.released = true
	hook := b.onRelease
	b.mu.Unlock()

	if hook != nil {
		hook(b)
	}
}

func (b *Buffer) fold(material []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return false
	}
	Mix(b.b, domainInteractive, material)
	b.folds++
	return true
}

// Source generates entropy buffers. It is safe for concurrent use.
type Source struct {
	providers []Provider
	signals   []Signal
	collector *Collector
	degraded  atomic.Uint64
}

// Option configures a Source.
type Option func(*Source)

// WithProviders replaces the provider cascade.
func WithProviders(providers ...Provider) Option {
	return func(s *Source) { s.providers = providers }
}

// WithSignals replaces the auxiliary signals.
func WithSignals(signals ...Signal) Option {
	return func(s *Source) { s.signals = signals }
}

// WithCollector attaches an interactive collector.
func WithCollector(c *Collector) Option {
	return func(s *Source) { s.collector = c }
}

// New creates a Source with the default providers and signals.
func New(opts ...Option) *Source {
	s := &Source{
		providers: DefaultProviders(),
		signals:   DefaultSignals(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collector returns the attached interactive collector, or nil.
func (s *Source) Collector() *Collector { return s.collector }

// DegradedCount returns how many buffers were produced by a degraded
// provider since the Source was created.
func (s *Source) DegradedCount() uint64 { return s.degraded.Load() }

// Generate returns a buffer of size bytes. It only fails for an invalid
// size; provider failures degrade the result instead.
func (s *Source) Generate(size int) (*Buffer, error) {
	if size != Size128 && size != Size256 {
		return nil, ErrInvalidSize
	}

	raw := make([]byte, size)
	var used Provider
	for _, p := range s.providers {
		if err := p.Fill(raw); err != nil {
			log.Debug().Err(err).Str("provider", p.Name()).Msg("entropy provider failed, trying next")
			continue
		}
		used = p
		break
	}
	if used == nil {
		used = WeakProvider{}
		_ = used.Fill(raw)
	}

	if used.Strength() == StrengthDegraded {
		s.degraded.Add(1)
		log.Warn().
			Str("event", "entropy_degraded").
			Str("provider", used.Name()).
			Int("size", size).
			Msg("No cryptographic RNG available, entropy produced by non-cryptographic fallback")
	}

	Mix(raw, domainAux, collectSignals(s.signals))

	buf := &Buffer{
		b:        raw,
		provider: used.Name(),
		strength: used.Strength(),
	}
	if s.collector != nil {
		s.collector.register(buf)
	}
	return buf, nil
}
