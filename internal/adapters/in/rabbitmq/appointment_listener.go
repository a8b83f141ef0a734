package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/hospital-booking-service/internal/config"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

// AppointmentListener слушает события о записях на прием из других систем
// больницы и инвалидирует затронутые записи кэша слотов
type AppointmentListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cache   out.SlotCachePort
	cfg     *config.Config
	logger  out.LoggerPort
}

type appointmentEvent struct {
	ID       uuid.UUID       `json:"id"`
	DoctorID string          `json:"doctor_id"`
	Date     json_types.Date `json:"date"`
	Status   string          `json:"status"`
}

func NewAppointmentListener(cache out.SlotCachePort, cfg *config.Config, logger out.LoggerPort) (*AppointmentListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &AppointmentListener{
		conn:    conn,
		channel: channel,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *AppointmentListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := l.processMessage(ctx, msg); err != nil {
					l.logger.Warn("rabbitmq.message.dropped", out.LogFields{
						"error": err.Error(),
					})
					// Битое сообщение не перечитываем
					msg.Nack(false, false)
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	l.logger.Info("rabbitmq.listener.started", out.LogFields{
		"queue": queue.Name,
	})

	return nil
}

func (l *AppointmentListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	var event appointmentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return err
	}

	l.logger.Debug("rabbitmq.appointment_event.received", out.LogFields{
		"appointmentId": event.ID,
		"doctorId":      event.DoctorID,
		"date":          event.Date.String(),
		"status":        event.Status,
	})

	// Набор занятых времен изменился — кэшированные слоты устарели
	l.cache.Invalidate(ctx, event.DoctorID, event.Date)

	return nil
}

func (l *AppointmentListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
