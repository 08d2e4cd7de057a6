package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gocloud.dev/pubsub"

	"github.com/loghive/logsearch/event"
	"github.com/loghive/logsearch/tracing"

	_ "gocloud.dev/pubsub/mempubsub"
)

func TestPublishEvent(t *testing.T) {
	t.Parallel()

	url := newTopicURL(t)
	ctx := context.Background()

	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(t, topic)

	subscription, err := pubsub.OpenSubscription(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(t, subscription)

	const (
		traceID   = "trace-id"
		clusterID = "cluster-1"
	)

	publisher := event.NewPublisher[event.SearchAudit](event.SearchAuditName, topic)
	wantEvt := event.SearchAudit{
		LogType:       "service",
		User:          "admin",
		FilterQueries: []string{"level:ERROR", "-host:node1"},
	}

	go func() {
		// Tracing info stored on the context is propagated to the events.
		ctx := tracing.CtxWithTraceID(ctx, traceID)
		ctx = tracing.CtxWithClusterID(ctx, clusterID)

		err := publisher.Publish(ctx, wantEvt)
		t.Logf("publish error: %v", err)
	}()

	gotMsg, err := subscription.Receive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	gotMsg.Ack()

	var got event.Envelope[event.SearchAudit]
	if err := json.Unmarshal(gotMsg.Body, &got); err != nil {
		t.Fatal(err)
	}

	if got.TraceID != traceID {
		t.Fatalf("got trace id %q; want %q", got.TraceID, traceID)
	}
	if got.ClusterID != clusterID {
		t.Fatalf("got cluster id %q; want %q", got.ClusterID, clusterID)
	}
	if got.Name != event.SearchAuditName {
		t.Fatalf("got name %q; want %q", got.Name, event.SearchAuditName)
	}
	if got.Event.User != wantEvt.User || got.Event.LogType != wantEvt.LogType {
		t.Fatalf("got event %+v; want %+v", got.Event, wantEvt)
	}
	if len(got.Event.FilterQueries) != len(wantEvt.FilterQueries) {
		t.Fatalf("got filter queries %v; want %v", got.Event.FilterQueries, wantEvt.FilterQueries)
	}
}

func TestPublishEventWithoutTracingInfo(t *testing.T) {
	t.Parallel()

	url := newTopicURL(t)
	ctx := context.Background()

	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(t, topic)

	subscription, err := pubsub.OpenSubscription(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(t, subscription)

	type Event struct{}

	publisher := event.NewPublisher[Event]("test", topic)
	go func() {
		err := publisher.Publish(ctx, Event{})
		t.Logf("publish error: %v", err)
	}()

	gotMsg, err := subscription.Receive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	gotMsg.Ack()

	want := event.Envelope[Event]{Name: "test"}
	got := event.Envelope[Event]{}
	if err := json.Unmarshal(gotMsg.Body, &got); err != nil {
		t.Fatal(err)
	}
	if want != got {
		t.Fatalf("got %+v != want %+v", got, want)
	}
}

func TestRawSubscriptionServing(t *testing.T) {
	t.Parallel()

	url := newTopicURL(t)
	ctx := context.Background()

	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(t, topic)

	subscription, err := event.NewRawSubscription(url, 1)
	if err != nil {
		t.Fatal(err)
	}

	receivedMsgs := make(chan event.Message)
	go func() {
		err := subscription.Serve(event.SampledMessageHandler("test", func(msg event.Message) error {
			receivedMsgs <- msg
			return nil
		}))
		t.Logf("serve returned: %v", err)
	}()

	const wantBody = "raw message body"
	if err := topic.Send(ctx, &pubsub.Message{Body: []byte(wantBody)}); err != nil {
		t.Fatalf("publishing message: %v", err)
	}

	gotMsg := <-receivedMsgs
	if string(gotMsg.Body) != wantBody {
		t.Fatalf("got %q; want %q", gotMsg.Body, wantBody)
	}

	shutdown(t, subscription)
}

func TestRawSubscriptionRejectsInvalidConcurrency(t *testing.T) {
	t.Parallel()

	if _, err := event.NewRawSubscription(newTopicURL(t), 0); err == nil {
		t.Fatal("want error for zero max concurrency")
	}
}

func TestSampledMessageHandlerPropagatesErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("handler failed")
	handler := event.SampledMessageHandler("test", func(event.Message) error {
		return wantErr
	})
	if err := handler(event.Message{Body: []byte("x")}); !errors.Is(err, wantErr) {
		t.Fatalf("got %v; want %v", err, wantErr)
	}
}

type shutdowner interface {
	Shutdown(context.Context) error
}

func shutdown(t *testing.T, s shutdowner) {
	t.Helper()

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func newTopicURL(t *testing.T) string {
	return "mem://" + t.Name()
}
