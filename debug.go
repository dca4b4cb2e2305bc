package flateralus

import (
	"fmt"
	"io"
	"os"
	"time"
)

// logOutput receives [flateralus] diagnostics. Only one writer is kept for
// the whole process.
var logOutput io.Writer = os.Stderr

// SetLogOutput redirects diagnostics (contained teardown failures, debug
// frame stats). A nil w discards them.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	logOutput = w
}

// Logf writes one [flateralus] diagnostic line. Adapter packages use it so
// SetLogOutput covers their output too.
func Logf(format string, args ...any) {
	_, _ = fmt.Fprintf(logOutput, "[flateralus] "+format+"\n", args...)
}

func logf(format string, args ...any) { Logf(format, args...) }

// contain runs fn, logging a returned error or a panic instead of
// propagating it. It reports whether fn completed cleanly.
func contain(op string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logf("%s: panic: %v", op, r)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		logf("%s: %v", op, err)
		return false
	}
	return true
}

// frameStats accumulates per-frame timing while debug mode is on.
type frameStats struct {
	frames     int
	updateTime time.Duration
	worst      time.Duration
}

// debugStatsInterval is the number of frames summarized per debug log line.
const debugStatsInterval = 120

func (s *frameStats) record(d time.Duration) {
	s.frames++
	s.updateTime += d
	if d > s.worst {
		s.worst = d
	}
}

// flush logs and clears the accumulated stats once enough frames are seen.
func (s *frameStats) flush(id string) {
	if s.frames < debugStatsInterval {
		return
	}
	logf("%s: frames: %d | avg update: %v | worst update: %v",
		id, s.frames, s.updateTime/time.Duration(s.frames), s.worst)
	*s = frameStats{}
}
