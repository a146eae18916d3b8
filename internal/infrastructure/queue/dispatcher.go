package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/setlist-live/setlist/internal/api/metrics"
	"github.com/setlist-live/setlist/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MailDispatcher routes outbound mail to a fixed set of workers using
// consistent hashing on the recipient address, guaranteeing per-recipient
// delivery ordering (a verification mail never overtakes the reset mail
// requested after it).
type MailDispatcher struct {
	workers []chan ports.MailJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.MailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) Enqueue(job ports.MailJob) {
	metrics.MailEnqueuedTotal.Inc()
	d.workers[d.shardIndex(job.To)] <- job
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, job); err != nil {
				d.log.Error().Err(err).
					Str("to", job.To).
					Str("subject", job.Subject).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}
