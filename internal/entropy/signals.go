package entropy

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/term"
)

// Signal returns low-quality, environment-derived material. Signals may
// be predictable; they are only ever folded in with XOR.
type Signal func() string

var processStart = time.Now()

// DefaultSignals returns the built-in auxiliary signals.
func DefaultSignals() []Signal {
	return []Signal{TimerSignal, HostSignal, RuntimeSignal, LocaleSignal, GeometrySignal, AgentSignal}
}

// TimerSignal reads the wall clock and the monotonic delta since start.
func TimerSignal() string {
	now := time.Now()
	return strconv.FormatInt(now.UnixNano(), 36) + ":" + strconv.FormatInt(int64(time.Since(processStart)), 36)
}

// HostSignal reads hostname and process identifiers.
func HostSignal() string {
	host, _ := os.Hostname()
	return host + ":" + strconv.Itoa(os.Getpid()) + ":" + strconv.Itoa(os.Getppid())
}

// RuntimeSignal fingerprints the platform and scheduler state.
func RuntimeSignal() string {
	return strings.Join([]string{
		runtime.GOOS,
		runtime.GOARCH,
		runtime.Version(),
		strconv.Itoa(runtime.NumCPU()),
		strconv.Itoa(runtime.NumGoroutine()),
	}, ":")
}

// LocaleSignal fingerprints locale and timezone configuration.
func LocaleSignal() string {
	zone, offset := time.Now().Zone()
	return strings.Join([]string{
		os.Getenv("LANG"),
		os.Getenv("LC_ALL"),
		os.Getenv("TZ"),
		zone,
		strconv.Itoa(offset),
	}, ":")
}

// GeometrySignal reads the controlling terminal's dimensions, if any.
func GeometrySignal() string {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return "noterm"
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return "noterm"
	}
	return strconv.Itoa(w) + "x" + strconv.Itoa(h)
}

// AgentSignal is the user-agent equivalent: executable path and args.
func AgentSignal() string {
	exe, _ := os.Executable()
	return exe + ":" + strings.Join(os.Args, " ")
}

// Mix folds material into dst. The material is expanded with the BLAKE3
// XOF to len(dst) bytes and XORed position-wise, so it can only add
// uncertainty to what dst already holds.
func Mix(dst []byte, domain string, material []byte) {
	if len(material) == 0 || len(dst) == 0 {
		return
	}
	h := blake3.New()
	_, _ = h.Write([]byte(domain))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(material)

	mask := make([]byte, len(dst))
	_, _ = h.Digest().Read(mask)
	for i := range dst {
		dst[i] ^= mask[i]
	}
	clear(mask)
}

func collectSignals(signals []Signal) []byte {
	var sb strings.Builder
	for _, s := range signals {
		sb.WriteString(s())
		sb.WriteByte('|')
	}
	return []byte(sb.String())
}
