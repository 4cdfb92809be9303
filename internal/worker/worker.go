package worker

import (
	"context"
	"encoding/json"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// ReceiptWorker consumes OrderCompleted events and writes receipts into the
// local order-history read model. Duplicate deliveries are suppressed via the
// redis processed-event marker plus the receipts table's reference conflict
// clause.
type ReceiptWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	receipts     *store.Store
	redis        *redisclient.Client
	logger       *zap.Logger
}

// NewReceiptWorker creates a new receipt worker
func NewReceiptWorker(consumer *broker.Consumer, receipts *store.Store, redis *redisclient.Client) *ReceiptWorker {
	w := &ReceiptWorker{
		consumer: consumer,
		receipts: receipts,
		redis:    redis,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCompleted(w.handleOrderCompleted)
	w.eventHandler = eventHandler
	return w
}

// Start starts the worker
func (w *ReceiptWorker) Start(ctx context.Context) error {
	log.Println("Starting receipt worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReceiptWorker) Stop() error {
	log.Println("Stopping receipt worker...")
	return w.consumer.Close()
}

func (w *ReceiptWorker) handleOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error {
	first, err := w.redis.MarkEventProcessed(ctx, event.EventID)
	if err != nil {
		w.logger.Warn("Failed to check processed event, relying on reference conflict",
			zap.String("event_id", event.EventID),
			zap.Error(err))
	} else if !first {
		w.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	items, err := json.Marshal(event.Items)
	if err != nil {
		return err
	}

	receipt := &models.Receipt{
		Reference:      event.Reference,
		Email:          event.Email,
		CustomerName:   event.CustomerName,
		Total:          event.GrandTotal,
		DeliveryMethod: event.DeliveryMethod,
		Items:          string(items),
	}

	if err := w.receipts.SaveReceipt(ctx, receipt); err != nil {
		return err
	}

	util.ReceiptsPersistedTotal.Inc()
	w.logger.Info("Receipt persisted",
		zap.String("reference", event.Reference),
		zap.String("email", event.Email))
	return nil
}
