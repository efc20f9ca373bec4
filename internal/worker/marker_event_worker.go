package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"markmycampus/internal/model"
	"markmycampus/internal/platform/rabbitmq"
	"markmycampus/internal/repository"
)

// MarkerEventWorker drains the marker event queue into the activity log.
type MarkerEventWorker struct {
	conn      *amqp.Connection
	repo      *repository.MarkerEventRepository
	queueName string
	log       logrus.FieldLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMarkerEventWorker(conn *amqp.Connection, repo *repository.MarkerEventRepository, queueName string, log logrus.FieldLogger) *MarkerEventWorker {
	return &MarkerEventWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		log:       log,
	}
}

func (w *MarkerEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.log.WithError(err).Error("marker event dropped")
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	w.log.WithField("queue", w.queueName).Info("marker event worker started")
	return nil
}

func (w *MarkerEventWorker) handle(ctx context.Context, body []byte) error {
	var event model.MarkerEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode marker event failed: %w", err)
	}
	if event.Type == "" {
		return fmt.Errorf("decode marker event failed: missing type")
	}
	// The log assigns its own ids.
	event.ID = 0
	return w.repo.Create(ctx, &event)
}

func (w *MarkerEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
