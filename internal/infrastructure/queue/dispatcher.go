package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/landworks/registry-system/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ReceiptProcessor is the service that produces and attaches a receipt for
// one recorded transaction.
type ReceiptProcessor interface {
	Process(ctx context.Context, transactionID string) error
}

// Dispatcher routes receipt jobs to a fixed set of workers using consistent
// hashing on the transaction ID, so retries of the same transaction never run
// concurrently with each other.
type Dispatcher struct {
	workers []chan string
	service ReceiptProcessor
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ReceiptProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a transaction ID to the worker responsible for it.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(transactionID string) {
	d.workers[d.shardIndex(transactionID)] <- transactionID
}

// shardIndex maps a transaction ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(transactionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(transactionID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case transactionID, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, transactionID); err != nil {
				metrics.ReceiptsGeneratedTotal.WithLabelValues("failure").Inc()
				d.log.Error().Err(err).
					Str("transaction_id", transactionID).
					Int("worker_id", id).
					Msg("receipt generation failed")
				continue
			}
			metrics.ReceiptsGeneratedTotal.WithLabelValues("success").Inc()
		}
	}
}
