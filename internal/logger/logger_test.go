package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output to a buffer and restores defaults when
// the test ends.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t, false)

	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("binding %s disabled", "b-1")
	assert.Zero(t, buf.Len())

	SetVerbose(true)
	Debug("binding %s disabled", "b-1")
	assert.Equal(t, "[DEBUG] binding b-1 disabled\n", buf.String())
}

func TestInfoAndWarnFormatting(t *testing.T) {
	buf := capture(t, true)

	Info("enqueued %d of %d sync requests", 3, 4)
	Warn("scheduler store unavailable")

	assert.Equal(t,
		"[INFO] enqueued 3 of 4 sync requests\n[WARN] scheduler store unavailable\n",
		buf.String())
}

func TestSectionHeader(t *testing.T) {
	buf := capture(t, true)

	Section("Dataset Re-sync")

	assert.Equal(t, "\n=== Dataset Re-sync ===\n", buf.String())
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Info("workspace %s refreshed", "ws-1")
	Warn("dispatch failed")
	Section("Sync")

	assert.Zero(t, buf.Len())
}

func TestConcurrentToggle(t *testing.T) {
	capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(n%2 == 0)
			Debug("worker %d", n)
			IsVerbose()
		}(i)
	}
	wg.Wait()
}
