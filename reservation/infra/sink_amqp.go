package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cinema-booking/reservation/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BookingConfirmedQueue é a fila padrão dos eventos de reserva confirmada.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent é publicado quando uma reserva é confirmada.
// Tem informação suficiente para logs e notificações sem consultar o engine.
type BookingConfirmedEvent struct {
	ReservationID string `json:"reservation_id"`
	HolderID      string `json:"holder_id"`
	ShowID        string `json:"show_id"`
	HallID        string `json:"hall_id"`
	MovieTitle    string `json:"movie_title"`
	StartsAt      string `json:"starts_at"`
	Seats         []int  `json:"seats"`
	WaitMillis    int64  `json:"wait_ms"`
	ConfirmedAt   string `json:"confirmed_at"`
}

func NewBookingConfirmedEvent(r domain.Reservation) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		ReservationID: r.ID.String(),
		HolderID:      string(r.HolderID),
		ShowID:        string(r.ShowID),
		HallID:        string(r.HallID),
		MovieTitle:    r.Title,
		StartsAt:      r.StartsAt.UTC().Format(time.RFC3339),
		Seats:         append([]int(nil), r.Seats...),
		WaitMillis:    r.Wait.Milliseconds(),
		ConfirmedAt:   r.CommittedAt.UTC().Format(time.RFC3339Nano),
	}
}

// AMQPPublisher publica BookingConfirmedEvent numa fila durável do RabbitMQ.
// Mantém uma conexão e um canal; o canal AMQP não é seguro para uso
// concorrente, então Publish serializa com mutex.
type AMQPPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

var _ domain.ReservationSink = (*AMQPPublisher)(nil)

// DialAMQP conecta no broker e declara a fila (idempotente, durável).
func DialAMQP(url, queue string) (*AMQPPublisher, error) {
	if queue == "" {
		queue = BookingConfirmedQueue
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, r domain.Reservation) error {
	body, err := json.Marshal(NewBookingConfirmedEvent(r))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    r.ID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	chErr := p.ch.Close()
	connErr := p.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}
