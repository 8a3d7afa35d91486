package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

var ErrQueueFull = errors.New("event queue is full")
var ErrStopped = errors.New("event dispatcher stopped")

// Dispatcher routes status events to a fixed set of workers by hashing the
// order number, so events of one order are applied in arrival order.
type Dispatcher struct {
	workers []chan ports.StatusEventInput
	service ports.EventService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.StatusEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers keep the values of ctx but not
// its cancellation: events already accepted are processed until Stop returns.
func (d *Dispatcher) Start(ctx context.Context) {
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(wctx, i, ch)
	}
}

// Stop refuses new events, lets the workers drain what is queued and waits for them.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
	if d.cancel != nil {
		d.cancel()
	}
}

// Enqueue hands an event to the worker that owns its order. It never blocks:
// a full worker queue yields ErrQueueFull.
func (d *Dispatcher) Enqueue(event ports.StatusEventInput) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	idx := d.shardIndex(event.OrderNumber)
	select {
	case d.workers[idx] <- event:
		d.observeDepth(idx)
		return nil
	default:
		return ErrQueueFull
	}
}

// EnqueueBatch enqueues events in order and returns how many were accepted
// before the first failure.
func (d *Dispatcher) EnqueueBatch(events []ports.StatusEventInput) (int, error) {
	for i, e := range events {
		if err := d.Enqueue(e); err != nil {
			return i, err
		}
	}
	return len(events), nil
}

// shardIndex maps an order number deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderNumber))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) observeDepth(idx int) {
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusEventInput) {
	defer d.wg.Done()
	for event := range ch {
		d.observeDepth(id)
		if err := d.service.Process(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("order_number", event.OrderNumber).
				Str("status", event.Status).
				Int("worker_id", id).
				Msg("event processing failed")
		}
	}
}
