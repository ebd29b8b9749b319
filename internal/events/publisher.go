package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher announces booking lifecycle changes to other systems, such as a
// future bank statement reconciler.
type Publisher interface {
	Publish(ctx context.Context, b *models.Booking, event booking.Event) error
}

// Envelope is the JSON body of every message.
type Envelope struct {
	ID         string         `json:"id"`
	Type       booking.Event  `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Booking    BookingPayload `json:"booking"`
}

type BookingPayload struct {
	Code          string         `json:"code"`
	PropertyID    uint           `json:"propertyId"`
	Status        booking.Status `json:"status"`
	CheckIn       calendar.Date  `json:"checkIn"`
	CheckOut      calendar.Date  `json:"checkOut"`
	TotalPrice    int64          `json:"totalPrice"`
	DepositAmount int64          `json:"depositAmount"`
	PaymentMethod string         `json:"paymentMethod,omitempty"`
}

func NewEnvelope(b *models.Booking, event booking.Event, now time.Time) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       event,
		OccurredAt: now.UTC(),
		Booking: BookingPayload{
			Code:          b.Code,
			PropertyID:    b.PropertyID,
			Status:        b.Status,
			CheckIn:       b.CheckIn,
			CheckOut:      b.CheckOut,
			TotalPrice:    b.TotalPrice,
			DepositAmount: b.DepositAmount,
			PaymentMethod: b.PaymentMethod,
		},
	}
}

// RoutingKey is "booking.<event>", so consumers can bind to "booking.#".
func RoutingKey(event booking.Event) string {
	return "booking." + string(event)
}

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher connects and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, b *models.Booking, event booking.Event) error {
	env := NewEnvelope(b, event, time.Now())
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		RoutingKey(event),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.ID,
			Timestamp:    env.OccurredAt,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close AMQP channel")
	}
	return p.conn.Close()
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, *models.Booking, booking.Event) error { return nil }
