package service

import (
	"context"
	"encoding/json"
	"log"

	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
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
	var frame dto.BroadcastFrame
	if err := json.Unmarshal(msg.Payload, &frame); err != nil {
		log.Printf("[ERROR] Failed to unmarshal broadcast frame: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	switch frame.Kind {
	case "state":
		cs.hub.BroadcastState(frame.Systems)
	case "alert":
		cs.hub.BroadcastAlert(frame.Alert, frame.Detail)
	default:
		log.Printf("[WARN] Unknown broadcast frame kind: %q", frame.Kind)
	}
	msg.Ack()
}
