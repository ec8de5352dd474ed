package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantiva/dashboard/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ReplyDeliverer is the target of due reply jobs.
type ReplyDeliverer interface {
	DeliverReply(ctx context.Context, transcriptID string) error
}

// Dispatcher delays chat replies until they are due. Jobs are sharded on the
// transcript id, so replies to one transcript are delivered in send order.
type Dispatcher struct {
	workers []chan ports.ReplyJob
	done    <-chan struct{}
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ReplyJob, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReplyJob, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled; pending jobs
// are dropped. Start must be called before the first Schedule.
func (d *Dispatcher) Start(ctx context.Context, target ReplyDeliverer) {
	d.done = ctx.Done()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch, target)
	}
}

// Schedule hands the job to the worker owning its transcript. It never
// blocks: once the dispatcher has stopped, or the worker's buffer is full,
// the job is dropped and logged.
func (d *Dispatcher) Schedule(job ports.ReplyJob) {
	select {
	case <-d.done:
		d.drop(job, "dispatcher stopped")
		return
	default:
	}

	select {
	case d.workers[d.shardIndex(job.TranscriptID)] <- job:
	default:
		d.drop(job, "worker buffer full")
	}
}

func (d *Dispatcher) drop(job ports.ReplyJob, reason string) {
	d.log.Warn().
		Str("transcript_id", job.TranscriptID).
		Str("reason", reason).
		Msg("reply dropped")
}

func (d *Dispatcher) shardIndex(transcriptID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(transcriptID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReplyJob, target ReplyDeliverer) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if !waitUntil(ctx, job.Due) {
				return
			}
			if err := target.DeliverReply(ctx, job.TranscriptID); err != nil {
				d.log.Error().Err(err).
					Str("transcript_id", job.TranscriptID).
					Int("worker_id", id).
					Msg("reply delivery failed")
			}
		}
	}
}

// waitUntil sleeps until due and reports false if ctx ended first.
func waitUntil(ctx context.Context, due time.Time) bool {
	wait := time.Until(due)
	if wait <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
