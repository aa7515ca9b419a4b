package worker

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/url-shortener/internal/service"
)

// captureLogs redirects the global logger into a buffer for the duration of
// a test and returns a reader for the captured lines.
func captureLogs(t *testing.T) func() []map[string]any {
	t.Helper()

	var mu sync.Mutex
	buf := &bytes.Buffer{}

	old := log.Logger
	log.Logger = zerolog.New(&lockedWriter{mu: &mu, buf: buf})
	t.Cleanup(func() { log.Logger = old })

	return func() []map[string]any {
		mu.Lock()
		defer mu.Unlock()

		var entries []map[string]any
		for _, line := range strings.Split(buf.String(), "\n") {
			if line == "" {
				continue
			}
			entry := map[string]any{}
			require.NoError(t, json.Unmarshal([]byte(line), &entry))
			entries = append(entries, entry)
		}
		return entries
	}
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func flushEntries(entries []map[string]any) []map[string]any {
	var flushes []map[string]any
	for _, e := range entries {
		if e["message"] == "Allocation events" {
			flushes = append(flushes, e)
		}
	}
	return flushes
}

func TestNewEventRecorderPool(t *testing.T) {
	config := DefaultConfig()

	pool := NewEventRecorderPool(config)

	assert.NotNil(t, pool)
	assert.Equal(t, config.WorkerCount, pool.workerCount)
	assert.Equal(t, config.BatchSize, pool.batchSize)
	assert.Equal(t, config.BatchTimeout, pool.batchTimeout)
	assert.NotNil(t, pool.eventChan)
	assert.Equal(t, config.BufferSize, cap(pool.eventChan))
}

func TestEventRecorderPool_FlushOnBatchSize(t *testing.T) {
	read := captureLogs(t)

	pool := NewEventRecorderPool(Config{
		WorkerCount:  1,
		BufferSize:   10,
		BatchSize:    3,
		BatchTimeout: 5 * time.Second,
	})
	pool.Start()

	pool.Record(service.AllocationEvent{Outcome: service.OutcomeBound, Attempts: 1})
	pool.Record(service.AllocationEvent{Outcome: service.OutcomeConflict, Attempts: 2})
	pool.Record(service.AllocationEvent{Outcome: service.OutcomeBound, Attempts: 1})

	time.Sleep(200 * time.Millisecond)
	pool.Shutdown()

	flushes := flushEntries(read())
	require.Len(t, flushes, 1)
	assert.Equal(t, float64(3), flushes[0]["events"])
	assert.Equal(t, float64(2), flushes[0]["bound"])
	assert.Equal(t, float64(1), flushes[0]["conflicts"])
	assert.Equal(t, float64(0), flushes[0]["exhausted"])
	assert.Equal(t, float64(4), flushes[0]["attempts"])
}

func TestEventRecorderPool_FlushOnTimeout(t *testing.T) {
	read := captureLogs(t)

	pool := NewEventRecorderPool(Config{
		WorkerCount:  1,
		BufferSize:   10,
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
	})
	pool.Start()

	pool.Record(service.AllocationEvent{Outcome: service.OutcomeExhausted, Attempts: 5})

	time.Sleep(300 * time.Millisecond)
	pool.Shutdown()

	flushes := flushEntries(read())
	require.Len(t, flushes, 1)
	assert.Equal(t, float64(1), flushes[0]["events"])
	assert.Equal(t, float64(1), flushes[0]["exhausted"])
	assert.Equal(t, float64(5), flushes[0]["attempts"])
}

func TestEventRecorderPool_ShutdownDrainsBuffer(t *testing.T) {
	read := captureLogs(t)

	pool := NewEventRecorderPool(Config{
		WorkerCount:  1,
		BufferSize:   50,
		BatchSize:    100,
		BatchTimeout: time.Minute,
	})
	pool.Start()

	for i := 0; i < 20; i++ {
		pool.Record(service.AllocationEvent{Outcome: service.OutcomeBound, Attempts: 1})
	}

	pool.Shutdown()

	total := 0
	for _, f := range flushEntries(read()) {
		total += int(f["events"].(float64))
	}
	assert.Equal(t, 20, total)
}

func TestEventRecorderPool_RecordNeverBlocks(t *testing.T) {
	read := captureLogs(t)

	// Workers never started, so the buffer fills up and stays full.
	pool := NewEventRecorderPool(Config{
		WorkerCount:  1,
		BufferSize:   1,
		BatchSize:    10,
		BatchTimeout: time.Minute,
	})

	done := make(chan struct{})
	go func() {
		pool.Record(service.AllocationEvent{Outcome: service.OutcomeBound})
		pool.Record(service.AllocationEvent{Outcome: service.OutcomeBound})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	dropped := 0
	for _, e := range read() {
		if e["message"] == "Event buffer full, dropping allocation event" {
			dropped++
		}
	}
	assert.Equal(t, 1, dropped)
}

func TestEventRecorderPool_ShutdownIdempotent(t *testing.T) {
	pool := NewEventRecorderPool(DefaultConfig())
	pool.Start()

	pool.Shutdown()
	assert.NotPanics(t, func() { pool.Shutdown() })
}
