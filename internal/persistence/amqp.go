package persistence

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/campus-grievance/grievance-service/internal/config"
)

// AMQP holds a broker connection and the channel used for publishing.
type AMQP struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// NewAMQP dials the broker and declares the durable topic exchange events
// are published to.
func NewAMQP(cfg config.AMQPConfig, exchange string, logger *zap.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	logger.Info("connected to amqp", zap.String("exchange", exchange))
	return &AMQP{Conn: conn, Channel: ch}, nil
}

// Close releases the channel and connection.
func (a *AMQP) Close() {
	if a == nil {
		return
	}
	if a.Channel != nil {
		_ = a.Channel.Close()
	}
	if a.Conn != nil {
		_ = a.Conn.Close()
	}
}

// Ping reports whether the connection is still open.
func (a *AMQP) Ping() error {
	if a == nil || a.Conn == nil {
		return errors.New("amqp connection not configured")
	}
	if a.Conn.IsClosed() {
		return errors.New("amqp connection closed")
	}
	return nil
}
