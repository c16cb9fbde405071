package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// capture enables verbose logging into a buffer with a fixed clock that
// advances by step on every reading.
func capture(t *testing.T, step time.Duration) *bytes.Buffer {
	t.Helper()
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	now := base
	var clockMu sync.Mutex

	mu.Lock()
	prevClock, prevStarted := clock, started
	clock = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		now = now.Add(step)
		return now
	}
	started = base
	mu.Unlock()

	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(true)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		mu.Lock()
		clock, started = prevClock, prevStarted
		mu.Unlock()
	})
	return buf
}

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	buf := capture(t, 250*time.Millisecond)

	Debug("tools: stage %d produced %d bytes", 2, 180224)
	Info("saved %s", "Aadhaar_Card.pdf")
	Warn("heic: passing %s through", "IMG_0042.HEIC")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"[DEBUG +0.250s] tools: stage 2 produced 180224 bytes",
		"[INFO +0.500s] saved Aadhaar_Card.pdf",
		"[WARN +0.750s] heic: passing IMG_0042.HEIC through",
	}, lines)
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t, time.Second)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")
	Timed("hidden")()

	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, time.Second)

	Section("Merge")

	assert.Equal(t, "\n=== Merge ===\n", buf.String())
}

func TestTimed(t *testing.T) {
	buf := capture(t, 1500*time.Millisecond)

	done := Timed("compress")
	done()

	assert.Contains(t, buf.String(), "compress took 1.5s")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
}

func TestConcurrentAccess(t *testing.T) {
	buf := capture(t, time.Millisecond)
	_ = buf

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			SetVerbose(n%2 == 0)
		}(i)
		go func(n int) {
			defer wg.Done()
			Debug("worker %d", n)
			_ = IsVerbose()
		}(i)
	}
	wg.Wait()
}
