// Package event provides publish/subscribe of log-search events, like the
// audit trail of executed search queries.
package event

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/pubsub"

	"github.com/loghive/logsearch/tracing"
)

type (
	// Publisher represents a publisher of events of type T.
	// The publisher guarantees that the events conform to our basic schema
	// for events, see [Envelope].
	Publisher[T any] struct {
		name  string
		topic *pubsub.Topic
	}

	// Envelope is the general structure of the body of events.
	Envelope[T any] struct {
		TraceID   string `json:"trace_id"`
		ClusterID string `json:"cluster_id"`
		Name      string `json:"name"`
		Event     T      `json:"event"`
	}
)

// NewPublisher creates a new event publisher for the given event name and topic.
func NewPublisher[T any](name string, t *pubsub.Topic) *Publisher[T] {
	return &Publisher[T]{
		name:  name,
		topic: t,
	}
}

// Publish will publish the given event. Trace and cluster IDs stored on the
// context (see [tracing]) are propagated to the event envelope.
func (p *Publisher[T]) Publish(ctx context.Context, event T) error {
	encBody, err := serializeEvent(ctx, p.name, event)
	if err != nil {
		return err
	}

	sample := publishSampler()
	err = p.topic.Send(ctx, &pubsub.Message{
		Body: encBody,
	})
	sample(p.name, len(encBody), err)

	return err
}

func serializeEvent[T any](ctx context.Context, name string, event T) ([]byte, error) {
	traceID, _ := tracing.CtxGetTraceID(ctx)
	clusterID, _ := tracing.CtxGetClusterID(ctx)
	return json.Marshal(Envelope[T]{
		TraceID:   traceID,
		ClusterID: clusterID,
		Name:      name,
		Event:     event,
	})
}

// RawSubscription represents a subscription that delivers messages as is.
// No assumptions are made about the message contents.
type RawSubscription struct {
	sub            *pubsub.Subscription
	maxConcurrency int
}

// Message is a single message received from a subscription.
type Message struct {
	Body []byte
}

// MessageHandler is responsible for handling messages from a subscription.
type MessageHandler func(Message) error

// NewRawSubscription creates a new raw subscription. It provides messages in
// a service like manner (serve) and manages concurrent execution, each
// message is processed in its own goroutine respecting the given
// maxConcurrency.
func NewRawSubscription(url string, maxConcurrency int) (*RawSubscription, error) {
	if maxConcurrency <= 0 {
		return nil, fmt.Errorf("max concurrency must be > 0: %d", maxConcurrency)
	}
	// We dont want the subscription to expire, so we use the background context.
	sub, err := pubsub.OpenSubscription(context.Background(), url)
	if err != nil {
		return nil, err
	}
	return &RawSubscription{
		sub:            sub,
		maxConcurrency: maxConcurrency,
	}, nil
}

// Serve will start serving all messages from the subscription calling
// handler for each message. It will run until [RawSubscription.Shutdown] is
// called. If the handler returns nil Ack is sent, otherwise Nack.
// Serve may be called multiple times, each call runs up to "maxConcurrency"
// goroutines.
func (r *RawSubscription) Serve(handler MessageHandler) error {
	semaphore := make(chan struct{}, r.maxConcurrency)
	for {
		semaphore <- struct{}{}
		msg, err := r.sub.Receive(context.Background())
		if err != nil {
			// Errors from Receive indicate that Receive will no longer succeed.
			return fmt.Errorf("receive from subscription failed, stopping serving: %v", err)
		}
		go func() {
			defer func() {
				<-semaphore
			}()
			err := handler(Message{Body: msg.Body})
			if err == nil {
				msg.Ack()
			} else {
				msg.Nack()
			}
		}()
	}
}

// Shutdown will shutdown the subscriber, stopping any calls to
// [RawSubscription.Serve]. The subscription should not be used after this
// method is called.
func (r *RawSubscription) Shutdown(ctx context.Context) error {
	return r.sub.Shutdown(ctx)
}
