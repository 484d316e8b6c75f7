package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// SNSAPI is satisfied by *aws.SNSClient.
type SNSAPI interface {
	Publish(ctx context.Context, topicArn string, message []byte, attributes map[string]string) error
}

type SNSPublisher struct {
	client   SNSAPI
	topicArn string
	logger   *zap.Logger
}

func NewSNSPublisher(client SNSAPI, topicArn string, logger *zap.Logger) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn, logger: logger}
}

func (p *SNSPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.topicArn, data, map[string]string{"eventType": evt.Type}); err != nil {
		return err
	}
	p.logger.Debug("Order event published to SNS",
		zap.String("order_number", evt.OrderNumber),
		zap.String("topic_arn", p.topicArn),
	)
	return nil
}

func (p *SNSPublisher) Close() error { return nil }
