package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prepkart/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TypeOrderPlaced is the event type emitted after an order is stored.
const TypeOrderPlaced = "order.placed"

// OrderPlaced describes a newly created order.
type OrderPlaced struct {
	OrderID         uuid.UUID             `json:"orderId"`
	UserID          uuid.UUID             `json:"userId"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	ItemCount       int                   `json:"itemCount"`
	EbookIDs        []uuid.UUID           `json:"ebookIds,omitempty"`
	PaymentProvider model.PaymentProvider `json:"paymentProvider"`
	PlacedAt        time.Time             `json:"placedAt"`
}

// NewOrderPlaced builds the event for an order.
func NewOrderPlaced(o *model.Order) OrderPlaced {
	evt := OrderPlaced{
		OrderID:         o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		PaymentProvider: o.PaymentProvider,
		PlacedAt:        o.CreatedAt,
	}
	for _, item := range o.Items {
		evt.ItemCount += item.Quantity
		if item.ProductType == model.ProductTypeEbook {
			evt.EbookIDs = append(evt.EbookIDs, item.Product.ID)
		}
	}
	return evt
}

// Envelope wraps every published message.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher emits domain events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
}

// MessageSender is the subset of *sqs.Client used for publishing.
type MessageSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher sends events as JSON messages to one queue.
type sqsPublisher struct {
	client   MessageSender
	queueURL string
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSQSPublisher creates a publisher using the default AWS credential chain.
func NewSQSPublisher(ctx context.Context, queueURL, region string, logger zerolog.Logger) (Publisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info().
		Str("queue_url", queueURL).
		Str("region", region).
		Msg("SQS event publisher initialized")

	return NewSQSPublisherWithClient(sqs.NewFromConfig(cfg), queueURL, logger), nil
}

// NewSQSPublisherWithClient creates a publisher with a custom client.
func NewSQSPublisherWithClient(client MessageSender, queueURL string, logger zerolog.Logger) Publisher {
	return &sqsPublisher{
		client:   client,
		queueURL: queueURL,
		now:      time.Now,
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// PublishOrderPlaced sends the event as a JSON message to the queue.
func (p *sqsPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	return p.publish(ctx, TypeOrderPlaced, evt.OrderID.String(), evt)
}

func (p *sqsPublisher) publish(ctx context.Context, eventType, entityID string, payload any) error {
	body, err := json.Marshal(Envelope{Type: eventType, OccurredAt: p.now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
			"entityId":  {DataType: aws.String("String"), StringValue: aws.String(entityID)},
		},
	})
	if err != nil {
		p.logger.Error().Err(err).
			Str("event_type", eventType).
			Str("entity_id", entityID).
			Msg("failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug().Str("event_type", eventType).Str("entity_id", entityID).Msg("event published")
	return nil
}

// NopPublisher discards events.
type NopPublisher struct{}

// PublishOrderPlaced discards the event.
func (NopPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	return nil
}
