package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"cinema-api/internal/config"
	"cinema-api/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
	Topics config.TopicConfig
}

func NewProducer(brokers []string, topics config.TopicConfig) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Topics: topics}
}

func (p *Producer) Publish(topic, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

type sessionCreatedEvent struct {
	SessionID  int64     `json:"session_id"`
	MovieID    int64     `json:"movie_id"`
	HallID     int64     `json:"cinema_hall_id"`
	ShowTime   time.Time `json:"show_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishSessionCreated streams a session creation event.
func (p *Producer) PublishSessionCreated(session models.MovieSession) error {
	event := sessionCreatedEvent{
		SessionID:  session.ID,
		MovieID:    session.MovieID,
		HallID:     session.CinemaHallID,
		ShowTime:   session.ShowTime,
		OccurredAt: time.Now(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(p.Topics.SessionCreated, formatID(session.ID), value)
}

type orderCreatedEvent struct {
	OrderID    int64          `json:"order_id"`
	Reference  string         `json:"reference"`
	UserID     int64          `json:"user_id"`
	SessionID  int64          `json:"session_id"`
	Seats      []models.Place `json:"seats"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// PublishOrderCreated streams an order commit event with its seats.
func (p *Producer) PublishOrderCreated(order models.Order, tickets []models.Ticket) error {
	event := orderCreatedEvent{
		OrderID:    order.ID,
		Reference:  order.Reference,
		UserID:     order.UserID,
		OccurredAt: time.Now(),
	}
	for _, t := range tickets {
		event.SessionID = t.MovieSessionID
		event.Seats = append(event.Seats, models.Place{Row: t.Row, Seat: t.Seat})
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(p.Topics.OrderCreated, order.Reference, value)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
