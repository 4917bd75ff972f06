package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"attention-cv-be/internal/pkg/logger"
	"attention-cv-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "SUPERVISOR_EVENTS"

func newTestConsumer(t *testing.T) (*gochannel.GoChannel, IConsumerService, IPublisherService) {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	eventLogger := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "events.log"))
	return pubSub, NewConsumerService(pubSub, testTopic, eventLogger), NewPublisherService(pubSub, testTopic)
}

func waitForCount(t *testing.T, consumer IConsumerService, eventType string, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if consumer.Stats()[eventType] == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("Stats() = %v, want %d %s events", consumer.Stats(), want, eventType)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestConsumerTalliesEvents(t *testing.T) {
	_, consumer, publisher := newTestConsumer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, publisher.Publish(ctx, events.NewSessionCleared("alpha")))
	require.NoError(t, publisher.Publish(ctx, events.NewSessionCleared("beta")))
	require.NoError(t, publisher.Publish(ctx, events.NewRequestRouted("alpha", "chat", true)))

	waitForCount(t, consumer, events.TypeSessionCleared, 2)
	waitForCount(t, consumer, events.TypeRequestRouted, 1)
	assert.Zero(t, consumer.Stats()[events.TypeDocumentIngested])
}

func TestConsumerSkipsMalformedPayloads(t *testing.T) {
	pubSub, consumer, publisher := newTestConsumer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, pubSub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	require.NoError(t, publisher.Publish(ctx, events.NewSessionCleared("alpha")))

	waitForCount(t, consumer, events.TypeSessionCleared, 1)
	assert.Len(t, consumer.Stats(), 1)
}
