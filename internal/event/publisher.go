package event

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPublisherClosed = errors.New("event publisher is closed")
	ErrQueueFull       = errors.New("event queue full, event dropped")
)

// Transport delivers one event payload to one topic, synchronously.
type Transport interface {
	Publish(ctx context.Context, topic string, ev AppointmentEvent) error
}

// ErrorFunc observes publish failures and dropped events. It must not block.
type ErrorFunc func(topic string, err error)

type envelope struct {
	topic string
	event AppointmentEvent
}

// AsyncPublisher decouples event delivery from the request path. Publish
// enqueues onto a bounded channel consumed by a single worker goroutine;
// it never blocks the caller and never surfaces transport errors to it.
// Failures and queue-full drops go to the error callback instead.
type AsyncPublisher struct {
	transport Transport
	onError   ErrorFunc
	queue     chan envelope
	done      chan struct{}
}

func NewAsyncPublisher(transport Transport, buffer int, onError ErrorFunc) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 64
	}
	p := &AsyncPublisher{
		transport: transport,
		onError:   onError,
		queue:     make(chan envelope, buffer),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for env := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := p.transport.Publish(ctx, env.topic, env.event)
		cancel()
		if err != nil {
			p.onError(env.topic, err)
		}
	}
}

// Publish enqueues the event for delivery. A full queue drops the event
// and reports it through the error callback; the caller always proceeds.
func (p *AsyncPublisher) Publish(topic string, ev AppointmentEvent) {
	defer func() {
		if recover() != nil {
			p.onError(topic, ErrPublisherClosed)
		}
	}()

	select {
	case p.queue <- envelope{topic: topic, event: ev}:
	default:
		p.onError(topic, ErrQueueFull)
	}
}

// Close stops accepting events and waits for the worker to drain the
// queue, or for ctx to expire.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	close(p.queue)
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
