// Package worker records playlist exports in the background.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
	"github.com/ewilliams-labs/moodlist/internal/metrics"
)

const recordTimeout = 5 * time.Second

// Pool manages background workers that write export records to the ledger.
type Pool struct {
	ledger  ports.PlaylistLedger
	jobs    chan domain.PlaylistExport
	workers int
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ ports.ExportRecorder = (*Pool)(nil)

// NewPool creates a worker pool with the given worker count and queue size.
func NewPool(ledger ports.PlaylistLedger, workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{ledger: ledger, jobs: make(chan domain.PlaylistExport, queueSize), workers: workers}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for queued records to be written.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues an export without blocking. Records are dropped when the
// queue is full or the pool is stopped.
func (p *Pool) Submit(e domain.PlaylistExport) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		metrics.ExportsRecorded.WithLabelValues("dropped").Inc()
		logging.Warn().Str("export_id", e.ID).Msg("worker: pool stopped, dropping export")
		return
	}
	select {
	case p.jobs <- e:
	default:
		metrics.ExportsRecorded.WithLabelValues("dropped").Inc()
		logging.Warn().Str("export_id", e.ID).Str("playlist_id", e.PlaylistID).Msg("worker: queue full, dropping export")
	}
}

func (p *Pool) processJob(e domain.PlaylistExport) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := p.ledger.Record(ctx, e); err != nil {
		metrics.ExportsRecorded.WithLabelValues("failed").Inc()
		logging.Warn().Err(err).Str("export_id", e.ID).Msg("worker: failed to record export")
		return
	}
	metrics.ExportsRecorded.WithLabelValues("recorded").Inc()
	logging.Debug().
		Str("export_id", e.ID).
		Str("playlist_id", e.PlaylistID).
		Str("status", string(e.Status)).
		Msg("worker: export recorded")
}
