package sampler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/vigilkit/hangwatch/hang"
)

// Goroutine captures a full goroutine stack dump via runtime.Stack,
// labelled with the hung component's identity. This is the in-process
// equivalent of the SIGUSR1 stack-dump convention: the hung goroutine
// cannot identify itself, so the whole scheduler state is captured and
// left to the consumer to sift.
type Goroutine struct {
	// MaxBytes caps the whole profile, header included. Dumps that do
	// not fit are truncated.
	// Default: 1 MiB
	MaxBytes int
}

// NewGoroutine creates a goroutine-dump sampler with defaults.
func NewGoroutine() *Goroutine {
	return &Goroutine{MaxBytes: 1 << 20}
}

// Sample implements hang.Sampler.
func (g *Goroutine) Sample(id hang.ComponentID) (hang.Profile, error) {
	max := g.MaxBytes
	if max <= 0 {
		max = 1 << 20
	}

	header := fmt.Sprintf("hangwatch goroutine dump for %s at %s\n\n",
		id, time.Now().UTC().Format(time.RFC3339Nano))

	// The header counts against the budget: the profile as a whole must
	// fit MaxBytes.
	budget := max - len(header)
	if budget <= 0 {
		return nil, fmt.Errorf("dump budget %d bytes cannot fit %d-byte header", max, len(header))
	}

	start := 64 << 10
	if start > budget {
		start = budget
	}
	buf := make([]byte, start)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		if len(buf) >= budget {
			// Dump larger than the budget; keep what fits.
			if len(buf) >= len(truncatedMark) {
				copy(buf[len(buf)-len(truncatedMark):], truncatedMark)
			}
			break
		}
		next := len(buf) * 2
		if next > budget {
			next = budget
		}
		buf = make([]byte, next)
	}

	profile := make(hang.Profile, 0, len(header)+len(buf))
	profile = append(profile, header...)
	profile = append(profile, buf...)
	return profile, nil
}

const truncatedMark = "\n...[truncated]\n"
