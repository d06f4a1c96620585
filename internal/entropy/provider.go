package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"os"
	"time"
)

// Strength classifies how trustworthy a provider's output is.
type Strength int

const (
	// StrengthStrong is a cryptographically secure generator.
	StrengthStrong Strength = iota
	// StrengthDegraded is a non-cryptographic last resort.
	StrengthDegraded
)

func (s Strength) String() string {
	if s == StrengthStrong {
		return "strong"
	}
	return "degraded"
}

// Provider fills a buffer with first-pass randomness. Providers are
// stateless and tried in priority order by Source.
type Provider interface {
	Name() string
	Strength() Strength
	Fill(b []byte) error
}

// DefaultProviders returns the built-in cascade: platform API, OS device,
// then the non-cryptographic fallback.
func DefaultProviders() []Provider {
	return []Provider{PlatformProvider{}, DeviceProvider{}, WeakProvider{}}
}

// PlatformProvider reads from the platform cryptographic API (crypto/rand).
type PlatformProvider struct{}

func (PlatformProvider) Name() string       { return "platform" }
func (PlatformProvider) Strength() Strength { return StrengthStrong }

func (PlatformProvider) Fill(b []byte) error {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return fmt.Errorf("failed to read platform rng: %w", err)
	}
	return nil
}

// DeviceProvider reads the OS random device directly. Path defaults to
// /dev/urandom.
type DeviceProvider struct {
	Path string
}

func (DeviceProvider) Name() string       { return "device" }
func (DeviceProvider) Strength() Strength { return StrengthStrong }

func (p DeviceProvider) Fill(b []byte) error {
	path := p.Path
	if path == "" {
		path = "/dev/urandom"
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open rng device: %w", err)
	}
	defer f.Close()

	if _, err := io.ReadFull(f, b); err != nil {
		return fmt.Errorf("failed to read rng device: %w", err)
	}
	return nil
}

// WeakProvider is a PCG generator seeded from the clock and pid. It is
// never used while a strong provider works and its use is always reported.
type WeakProvider struct{}

func (WeakProvider) Name() string       { return "weak" }
func (WeakProvider) Strength() Strength { return StrengthDegraded }

func (WeakProvider) Fill(b []byte) error {
	now := time.Now()
	r := mrand.New(mrand.NewPCG(uint64(now.UnixNano()), uint64(os.Getpid())<<32|uint64(now.Nanosecond())))
	var word [8]byte
	for i := 0; i < len(b); i += 8 {
		binary.LittleEndian.PutUint64(word[:], r.Uint64())
		copy(b[i:], word[:])
	}
	return nil
}

// ErrUnavailable is returned by providers that cannot serve on this host.
var ErrUnavailable = errors.New("entropy provider unavailable")
