// Audit is a simple manual test for ordered search-audit events.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"cloud.google.com/go/pubsub"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/loghive/logsearch/event"

	_ "gocloud.dev/pubsub/gcppubsub"
)

const (
	totalClusters = 5
	totalEvents   = 50
)

func main() {
	usage := func() {
		log.Fatalf("usage: %q [subscriber|publisher]", os.Args[0])
	}
	if len(os.Args) <= 1 {
		usage()
	}
	projectID := os.Getenv("GOOGLE_PROJECT")
	if projectID == "" {
		log.Fatal("missing env var: GOOGLE_PROJECT")
	}
	topicName := os.Getenv("TOPIC_NAME")
	if topicName == "" {
		log.Fatal("missing env var: TOPIC_NAME")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch os.Args[1] {
	case "subscriber":
		subscriber(ctx, projectID, topicName)
	case "publisher":
		publisher(ctx, projectID, topicName)
	default:
		usage()
	}
}

func subscriber(ctx context.Context, projectID, topicName string) {
	client, err := pubsub.NewClient(ctx, projectID)
	panicerr(err)
	defer func() {
		_ = client.Close()
	}()

	_, err = client.CreateSubscription(ctx, topicName, pubsub.SubscriptionConfig{
		Topic:                 client.Topic(topicName),
		ExpirationPolicy:      24 * time.Hour,
		EnableMessageOrdering: true,
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		log.Fatalf("creating subscription: %v", err)
	}

	url := fmt.Sprintf("gcppubsub://projects/%s/subscriptions/%s", projectID, topicName)
	sub, err := event.NewRawSubscription(url, totalClusters)
	panicerr(err)

	log.Printf("starting handler with concurrency=%d", totalClusters)
	err = sub.Serve(event.SampledMessageHandler(event.SearchAuditName, func(msg event.Message) error {
		fmt.Printf("%s\n", msg.Body)
		return nil
	}))
	log.Printf("subscription stopped: %v", err)
}

func publisher(ctx context.Context, projectID, topicName string) {
	client, err := pubsub.NewClient(ctx, projectID)
	panicerr(err)
	defer func() {
		_ = client.Close()
	}()

	createTopic(ctx, client, topicName)

	publisher, err := event.NewOrderedGooglePublisher[event.SearchAudit](ctx, projectID, topicName, event.SearchAuditName)
	panicerr(err)

	log.Printf("starting publisher with %d concurrent clusters", totalClusters)

	g := &errgroup.Group{}

	for i := range totalClusters {
		clusterID := fmt.Sprintf("cluster-%d", i)
		g.Go(func() error {
			for n := range totalEvents {
				err := publisher.Publish(ctx, event.SearchAudit{
					LogType:       "service",
					User:          "tester",
					FilterQueries: []string{fmt.Sprintf("seq:%d", n)},
				}, clusterID)
				panicerr(err)
			}
			return nil
		})
	}

	err = g.Wait()
	log.Printf("publishers stopped: %v", err)
}

func createTopic(ctx context.Context, client *pubsub.Client, topicName string) {
	_, err := client.CreateTopic(ctx, topicName)
	if err != nil && status.Code(err) != codes.AlreadyExists {
		log.Fatalf("creating topic: %v", err)
	}
	log.Print("created topic")
}

func panicerr(err error) {
	if err != nil {
		panic(err)
	}
}
