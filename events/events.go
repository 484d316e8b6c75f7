package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const OrderPlacedType = "order.placed"

type OrderPlacedItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderPlaced is emitted once an order and its items are committed.
type OrderPlaced struct {
	Type        string            `json:"type"`
	OrderID     string            `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	UserID      string            `json:"userId,omitempty"`
	Total       float64           `json:"total"`
	Items       []OrderPlacedItem `json:"items"`
	Timestamp   time.Time         `json:"timestamp"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (NoopPublisher) Close() error { return nil }

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher struct {
	publishers []Publisher
	logger     *zap.Logger
}

func NewMultiPublisher(logger *zap.Logger, publishers ...Publisher) *MultiPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MultiPublisher{publishers: publishers, logger: logger}
}

func (m *MultiPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.PublishOrderPlaced(ctx, evt); err != nil {
			m.logger.Warn("Order event publish failed",
				zap.String("order_number", evt.OrderNumber),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Close() error {
	var errs []error
	for _, p := range m.publishers {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}

// Len reports how many publishers are configured.
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}
