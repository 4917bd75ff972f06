package service

import (
	"context"
	"encoding/json"
	"sync"

	"attention-cv-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	Stats() map[string]int
}

// consumerService tallies supervisor events off the in-process topic. The
// counts are process-local; they exist for log visibility and the stats
// accessor, not for durable accounting.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger

	mu     sync.Mutex
	counts map[string]int
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, eventLogger logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    eventLogger,
		counts:    make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.mu.Lock()
	cs.counts[envelope.Type]++
	total := cs.counts[envelope.Type]
	cs.mu.Unlock()

	cs.logger.Info("consumer", "Event consumed", map[string]interface{}{
		"type":       envelope.Type,
		"session_id": envelope.Data["session_id"],
		"total":      total,
	})
	msg.Ack()
}

func (cs *consumerService) Stats() map[string]int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	out := make(map[string]int, len(cs.counts))
	for k, v := range cs.counts {
		out[k] = v
	}
	return out
}
