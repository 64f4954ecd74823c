package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/notifier"
)

// NotificationWorker consumes order events and turns them into customer
// notifications. Failures are logged and the message is committed anyway;
// a lost mail must never wedge the event stream.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewNotificationWorker creates a worker wired to the email notifier.
func NewNotificationWorker(consumer *broker.Consumer, mailer *notifier.EmailNotifier) *NotificationWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderSubmitted(func(ctx context.Context, event *models.OrderSubmittedEvent) error {
		if err := mailer.SendOrderConfirmation(ctx, event); err != nil {
			log.Printf("Notification failed for order %s: %v", event.OrderID, err)
		}
		return nil
	})

	return &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}
