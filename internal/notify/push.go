package notify

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// messagingClient is the subset of *messaging.Client used here.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// TopicPusher publishes SOS alerts to an FCM topic that moderator
// devices subscribe to.
type TopicPusher struct {
	client messagingClient
	topic  string
	logger *zap.SugaredLogger
}

func NewTopicPusher(ctx context.Context, app *firebase.App, topic string, logger *zap.SugaredLogger) (*TopicPusher, error) {
	if app == nil {
		return nil, errors.New("firebase app is not configured")
	}
	if topic == "" {
		return nil, errors.New("push topic is required")
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &TopicPusher{client: client, topic: topic, logger: logger}, nil
}

func (p *TopicPusher) Channel() Channel {
	return ChannelPush
}

// Push sends one notification to the topic. data is attached as the
// message payload so clients can open the incident directly.
func (p *TopicPusher) Push(ctx context.Context, title, body string, data map[string]string) (res Result) {
	defer guard(ChannelPush, &res)

	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Topic: p.topic,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	id, err := p.client.Send(ctx, msg)
	if err != nil {
		p.logger.Warnw("push to topic failed", "topic", p.topic, "error", err)
		return failed(err)
	}
	p.logger.Infow("push sent", "topic", p.topic, "message_id", id)
	return Result{Success: true, MessageID: id}
}
