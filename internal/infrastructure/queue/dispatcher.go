package queue

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tasklist/tasklist-api/internal/core/ports"
	"github.com/tasklist/tasklist-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// Dispatcher routes avatar cleanup jobs to a fixed set of workers sharded by
// account id, so jobs for the same account run in the order they were queued.
type Dispatcher struct {
	workers    []chan ports.AvatarCleanup
	reconciler ports.AvatarReconciler
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, reconciler ports.AvatarReconciler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:    make([]chan ports.AvatarCleanup, numWorkers),
		reconciler: reconciler,
		log:        log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AvatarCleanup, channelBuffer)
	}
	return d
}

// SetReconciler replaces the job handler. It must be called before Start.
func (d *Dispatcher) SetReconciler(r ports.AvatarReconciler) {
	d.reconciler = r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands the job to the worker owning its account. It never blocks:
// when that worker's buffer is full the job is dropped and left for the
// startup sweep.
func (d *Dispatcher) Enqueue(job ports.AvatarCleanup) {
	idx := d.shardIndex(job.AccountID)
	select {
	case d.workers[idx] <- job:
		metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.CleanupErrorsTotal.Inc()
		d.log.Warn().
			Int64("user_id", job.AccountID).
			Str("file", job.Filename).
			Int("worker_id", idx).
			Msg("cleanup queue full, job dropped")
	}
}

// shardIndex maps an account id deterministically to a worker index.
func (d *Dispatcher) shardIndex(accountID int64) int {
	return int(uint64(accountID) % uint64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AvatarCleanup) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.CleanupQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.reconciler.Reconcile(ctx, job); err != nil {
				metrics.CleanupErrorsTotal.Inc()
				d.log.Error().Err(err).
					Int64("user_id", job.AccountID).
					Str("file", job.Filename).
					Int("worker_id", id).
					Msg("avatar cleanup failed")
			}
		}
	}
}
