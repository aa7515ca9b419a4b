package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avolkov/url-shortener/internal/service"
)

// EventRecorderPool consumes allocation events off the request hot path and
// flushes them as structured log batches. Record never blocks: when the
// buffer is full the event is dropped and counted, which is acceptable for
// diagnostics.
type EventRecorderPool struct {
	eventChan    chan service.AllocationEvent
	batchSize    int
	batchTimeout time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Config controls batching behaviour of the recorder pool.
type Config struct {
	WorkerCount  int
	BufferSize   int
	BatchSize    int
	BatchTimeout time.Duration
}

// DefaultConfig returns batching settings suitable for a single instance.
func DefaultConfig() Config {
	return Config{
		WorkerCount:  2,
		BufferSize:   256,
		BatchSize:    32,
		BatchTimeout: 5 * time.Second,
	}
}

// NewEventRecorderPool creates a recorder pool with the given config.
func NewEventRecorderPool(config Config) *EventRecorderPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventRecorderPool{
		eventChan:    make(chan service.AllocationEvent, config.BufferSize),
		batchSize:    config.BatchSize,
		batchTimeout: config.BatchTimeout,
		workerCount:  config.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the recorder workers.
func (p *EventRecorderPool) Start() {
	log.Info().
		Int("workers", p.workerCount).
		Int("batchSize", p.batchSize).
		Dur("batchTimeout", p.batchTimeout).
		Msg("Starting allocation event recorder")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Record implements service.AllocationRecorder.
func (p *EventRecorderPool) Record(e service.AllocationEvent) {
	select {
	case <-p.ctx.Done():
	case p.eventChan <- e:
	default:
		log.Warn().Str("outcome", e.Outcome).Msg("Event buffer full, dropping allocation event")
	}
}

type batchStats struct {
	bound     int
	conflicts int
	exhausted int
	attempts  int
}

func (p *EventRecorderPool) worker(id int) {
	defer p.wg.Done()

	var stats batchStats
	events := 0
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if events == 0 {
			return
		}

		log.Info().
			Int("workerID", id).
			Int("events", events).
			Int("bound", stats.bound).
			Int("conflicts", stats.conflicts).
			Int("exhausted", stats.exhausted).
			Int("attempts", stats.attempts).
			Msg("Allocation events")

		stats = batchStats{}
		events = 0
	}

	startOrResetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(p.batchTimeout)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(p.batchTimeout)
		timerC = timer.C
	}

	stopTimer := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timerC = nil
	}

	consume := func(e service.AllocationEvent) {
		events++
		stats.attempts += e.Attempts
		switch e.Outcome {
		case service.OutcomeBound:
			stats.bound++
		case service.OutcomeConflict:
			stats.conflicts++
		case service.OutcomeExhausted:
			stats.exhausted++
		}
	}

	for {
		select {
		case <-p.ctx.Done():
			// Drain whatever is still buffered before the final flush.
			for {
				select {
				case e := <-p.eventChan:
					consume(e)
				default:
					flush()
					stopTimer()
					return
				}
			}

		case e := <-p.eventChan:
			wasEmpty := events == 0
			consume(e)

			if events >= p.batchSize {
				flush()
				stopTimer()
			} else if wasEmpty {
				startOrResetTimer()
			}

		case <-timerC:
			flush()
			stopTimer()
		}
	}
}

// Shutdown stops the workers after draining buffered events.
func (p *EventRecorderPool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}
