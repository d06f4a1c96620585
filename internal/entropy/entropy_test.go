package entropy

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{}

func (failingProvider) Name() string        { return "failing" }
func (failingProvider) Strength() Strength  { return StrengthStrong }
func (failingProvider) Fill(_ []byte) error { return ErrUnavailable }

type constProvider struct {
	value    byte
	strength Strength
}

func (p constProvider) Name() string       { return "const" }
func (p constProvider) Strength() Strength { return p.strength }
func (p constProvider) Fill(b []byte) error {
	for i := range b {
		b[i] = p.value
	}
	return nil
}

func TestGenerateSizes(t *testing.T) {
	src := New()
	for _, size := range []int{Size128, Size256} {
		buf, err := src.Generate(size)
		require.NoError(t, err)
		assert.Equal(t, size, buf.Len())
		assert.Equal(t, "platform", buf.Provider())
		assert.False(t, buf.Degraded())
		buf.Release()
	}

	for _, size := range []int{0, 8, 24, 64} {
		_, err := src.Generate(size)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestGenerateFreshBuffers(t *testing.T) {
	src := New()
	a, err := src.Generate(Size256)
	require.NoError(t, err)
	b, err := src.Generate(Size256)
	require.NoError(t, err)
	assert.NotEqual(t, a.Bytes(), b.Bytes())
}

func TestGenerateFallsThroughProviders(t *testing.T) {
	src := New(WithProviders(failingProvider{}, constProvider{value: 7}), WithSignals())
	buf, err := src.Generate(Size128)
	require.NoError(t, err)
	assert.Equal(t, "const", buf.Provider())
	assert.Equal(t, bytes.Repeat([]byte{7}, Size128), buf.Bytes())
	assert.Zero(t, src.DegradedCount())
}

func TestGenerateWeakestOnlyIsFlagged(t *testing.T) {
	src := New(WithProviders(failingProvider{}, WeakProvider{}))
	buf, err := src.Generate(Size256)
	require.NoError(t, err)
	assert.True(t, buf.Degraded())
	assert.Equal(t, "weak", buf.Provider())
	assert.EqualValues(t, 1, src.DegradedCount())
}

func TestGenerateAllProvidersFail(t *testing.T) {
	src := New(WithProviders(failingProvider{}))
	buf, err := src.Generate(Size128)
	require.NoError(t, err)
	assert.True(t, buf.Degraded())
	assert.EqualValues(t, 1, src.DegradedCount())
}

func TestAuxiliarySignalsAreFolded(t *testing.T) {
	fixed := func() string { return "fixed-signal" }
	src := New(WithProviders(constProvider{}), WithSignals(fixed))

	a, err := src.Generate(Size256)
	require.NoError(t, err)
	b, err := src.Generate(Size256)
	require.NoError(t, err)

	assert.NotEqual(t, make([]byte, Size256), a.Bytes(), "signal must change a zero first pass")
	assert.Equal(t, a.Bytes(), b.Bytes(), "mixing is deterministic for identical inputs")
}

func TestMixIsXOR(t *testing.T) {
	zero := make([]byte, 16)
	Mix(zero, "d", []byte("material"))

	ones := bytes.Repeat([]byte{0xff}, 16)
	Mix(ones, "d", []byte("material"))

	for i := range zero {
		assert.Equal(t, zero[i]^0xff, ones[i])
	}

	untouched := []byte{1, 2, 3}
	Mix(untouched, "d", nil)
	assert.Equal(t, []byte{1, 2, 3}, untouched)
}

func TestDefaultSignalsDoNotPanic(t *testing.T) {
	for _, s := range DefaultSignals() {
		assert.NotPanics(t, func() { _ = s() })
	}
}

func TestReleaseZeroes(t *testing.T) {
	src := New(WithProviders(constProvider{value: 9}), WithSignals())
	buf, err := src.Generate(Size128)
	require.NoError(t, err)
	buf.Release()
	assert.Equal(t, make([]byte, Size128), buf.Bytes())
	buf.Release()
}

func TestCollectorFoldsAtCap(t *testing.T) {
	c := NewCollector(4, time.Hour)
	src := New(WithProviders(constProvider{}), WithSignals(), WithCollector(c))

	live, err := src.Generate(Size256)
	require.NoError(t, err)
	released, err := src.Generate(Size128)
	require.NoError(t, err)
	released.Release()

	before := live.Bytes()
	for i := 0; i < 3; i++ {
		c.Add([]byte{byte(i)})
	}
	assert.Equal(t, 3, c.Pending())
	assert.Equal(t, before, live.Bytes(), "no fold before the cap")

	c.Add([]byte{3})
	assert.Zero(t, c.Pending())
	assert.NotEqual(t, before, live.Bytes())
	assert.Equal(t, 1, live.InteractiveFolds())
	assert.Equal(t, make([]byte, Size128), released.Bytes())
	assert.Equal(t, 1, c.Live())
}

func TestCollectorFoldsOnTimeout(t *testing.T) {
	c := NewCollector(1000, 20*time.Millisecond)
	folded := make(chan int, 1)
	c.OnFolded(func(n int) { folded <- n })

	src := New(WithProviders(constProvider{}), WithSignals(), WithCollector(c))
	buf, err := src.Generate(Size128)
	require.NoError(t, err)

	c.Add(nil)

	select {
	case n := <-folded:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not fold after timeout")
	}
	assert.Equal(t, 1, buf.InteractiveFolds())
}

func TestCollectorDoesNotBlockGenerate(t *testing.T) {
	c := NewCollector(0, 0)
	src := New(WithCollector(c))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			c.Add([]byte{byte(i)})
		}
	}()
	for i := 0; i < 50; i++ {
		buf, err := src.Generate(Size128)
		require.NoError(t, err)
		buf.Release()
	}
	<-done
	c.Flush()
	assert.Zero(t, c.Pending())
}
