package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeTransport struct {
	mu        sync.Mutex
	published []string
	failWith  error
}

func (f *fakeTransport) Publish(_ context.Context, topic string, _ AppointmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.published = append(f.published, topic)
	return nil
}

func (f *fakeTransport) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.published...)
}

func TestAsyncPublisher_DeliversAndDrains(t *testing.T) {
	transport := &fakeTransport{}
	pub := NewAsyncPublisher(transport, 8, func(topic string, err error) {
		t.Errorf("unexpected publish error on %s: %v", topic, err)
	})

	pub.Publish(TopicAppointmentCreated, AppointmentEvent{AppointmentID: 1})
	pub.Publish(TopicAppointmentStatusChanged, AppointmentEvent{AppointmentID: 1})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := pub.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := transport.topics()
	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries after drain, got %d", len(got))
	}
	if got[0] != TopicAppointmentCreated || got[1] != TopicAppointmentStatusChanged {
		t.Errorf("unexpected delivery order: %v", got)
	}
}

func TestAsyncPublisher_FailureGoesToCallbackOnly(t *testing.T) {
	failure := errors.New("broker down")
	transport := &fakeTransport{failWith: failure}

	var mu sync.Mutex
	var observed []error
	pub := NewAsyncPublisher(transport, 8, func(_ string, err error) {
		mu.Lock()
		observed = append(observed, err)
		mu.Unlock()
	})

	// Publish never surfaces the transport failure to the caller.
	pub.Publish(TopicAppointmentCreated, AppointmentEvent{AppointmentID: 7})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := pub.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(observed) != 1 || !errors.Is(observed[0], failure) {
		t.Fatalf("expected one observed broker failure, got %v", observed)
	}
}

func TestAsyncPublisher_PublishAfterCloseIsObserved(t *testing.T) {
	transport := &fakeTransport{}

	var mu sync.Mutex
	var observed []error
	pub := NewAsyncPublisher(transport, 8, func(_ string, err error) {
		mu.Lock()
		observed = append(observed, err)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := pub.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	pub.Publish(TopicAppointmentCreated, AppointmentEvent{AppointmentID: 1})

	mu.Lock()
	defer mu.Unlock()
	if len(observed) != 1 || !errors.Is(observed[0], ErrPublisherClosed) {
		t.Fatalf("expected ErrPublisherClosed, got %v", observed)
	}
}
