package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event any) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestHandleMessageRoutesOrderCompleted(t *testing.T) {
	eh := NewEventHandler()

	var got *models.OrderCompletedEvent
	eh.OnOrderCompleted(func(_ context.Context, e *models.OrderCompletedEvent) error {
		got = e
		return nil
	})

	event := &models.OrderCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeOrderCompleted,
			Timestamp: time.Now(),
		},
		SessionID:  "sess-1",
		Reference:  "ref-123",
		Email:      "a@b.com",
		GrandTotal: 145,
		Items: []models.OrderItem{
			{SKUID: "TEE-BLK-M", ItemName: "Classic Tee", Size: "M", Qty: 2, Price: 50},
		},
	}

	err := eh.HandleMessage(context.Background(), message(t, event))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ref-123", got.Reference)
	assert.Len(t, got.Items, 1)
}

func TestHandleMessageRoutesCheckoutCancelled(t *testing.T) {
	eh := NewEventHandler()

	var got *models.CheckoutCancelledEvent
	eh.OnCheckoutCancelled(func(_ context.Context, e *models.CheckoutCancelledEvent) error {
		got = e
		return nil
	})

	event := &models.CheckoutCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-2",
			EventType: models.EventTypeCheckoutCancelled,
			Timestamp: time.Now(),
		},
		SessionID:  "sess-1",
		GrandTotal: 145,
	}

	err := eh.HandleMessage(context.Background(), message(t, event))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sess-1", got.SessionID)
}

func TestHandleMessageIgnoresUnregisteredAndUnknownTypes(t *testing.T) {
	eh := NewEventHandler()

	// no handler registered for this type
	err := eh.HandleMessage(context.Background(), message(t, &models.OrderCompletedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderCompleted},
	}))
	assert.NoError(t, err)

	// unknown type is logged and skipped
	err = eh.HandleMessage(context.Background(), message(t, &models.BaseEvent{EventType: "SOMETHING_ELSE"}))
	assert.NoError(t, err)

	// malformed payload is an error
	err = eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
