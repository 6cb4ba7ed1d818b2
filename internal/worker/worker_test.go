package worker

import (
	"context"
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

type fakeNotificationStore struct {
	receiptNotified map[int64]bool
	paymentNotified map[int64]bool
	processed       map[string]bool

	receiptLatchCalls int
	paymentLatchCalls int
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		receiptNotified: make(map[int64]bool),
		paymentNotified: make(map[int64]bool),
		processed:       make(map[string]bool),
	}
}

func (f *fakeNotificationStore) MarkReceiptNotified(_ context.Context, receiptID int64) (bool, error) {
	f.receiptLatchCalls++
	if f.receiptNotified[receiptID] {
		return false, nil
	}
	f.receiptNotified[receiptID] = true
	return true, nil
}

func (f *fakeNotificationStore) MarkPaymentNotified(_ context.Context, userID int64) (bool, error) {
	f.paymentLatchCalls++
	if f.paymentNotified[userID] {
		return false, nil
	}
	f.paymentNotified[userID] = true
	return true, nil
}

func (f *fakeNotificationStore) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	return f.processed[eventID], nil
}

func (f *fakeNotificationStore) MarkEventProcessed(_ context.Context, eventID, _ string) error {
	f.processed[eventID] = true
	return nil
}

func receiptEvent(eventID string, receiptID int64) *models.ReceiptCreatedEvent {
	return &models.ReceiptCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   eventID,
			EventType: models.EventTypeReceiptCreated,
			Timestamp: time.Now(),
		},
		ReceiptID:     receiptID,
		ReceiptNumber: "RCP-test",
		UserID:        1,
		TotalAmount:   2500,
	}
}

func TestHandleReceiptCreated(t *testing.T) {
	t.Run("first delivery latches and records the event", func(t *testing.T) {
		st := newFakeNotificationStore()
		w := &NotificationWorker{store: st, logger: testLogger()}

		err := w.handleReceiptCreated(context.Background(), receiptEvent("evt-1", 10))
		require.NoError(t, err)

		assert.True(t, st.receiptNotified[10])
		assert.True(t, st.processed["evt-1"])
		assert.Equal(t, 1, st.receiptLatchCalls)
	})

	t.Run("redelivered event is skipped before the latch", func(t *testing.T) {
		st := newFakeNotificationStore()
		w := &NotificationWorker{store: st, logger: testLogger()}

		require.NoError(t, w.handleReceiptCreated(context.Background(), receiptEvent("evt-1", 10)))
		require.NoError(t, w.handleReceiptCreated(context.Background(), receiptEvent("evt-1", 10)))

		assert.Equal(t, 1, st.receiptLatchCalls)
	})

	t.Run("distinct event for an already-notified receipt loses the latch", func(t *testing.T) {
		st := newFakeNotificationStore()
		w := &NotificationWorker{store: st, logger: testLogger()}

		require.NoError(t, w.handleReceiptCreated(context.Background(), receiptEvent("evt-1", 10)))
		require.NoError(t, w.handleReceiptCreated(context.Background(), receiptEvent("evt-2", 10)))

		assert.Equal(t, 2, st.receiptLatchCalls)
		assert.True(t, st.processed["evt-2"])
	})
}

func TestHandlePaymentConfirmed(t *testing.T) {
	st := newFakeNotificationStore()
	w := &NotificationWorker{store: st, logger: testLogger()}

	event := &models.PaymentConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-pay-1",
			EventType: models.EventTypePaymentConfirmed,
			Timestamp: time.Now(),
		},
		UserID:   5,
		Username: "buyer",
		PaidAt:   time.Now(),
	}

	require.NoError(t, w.handlePaymentConfirmed(context.Background(), event))
	assert.True(t, st.paymentNotified[5])
	assert.True(t, st.processed["evt-pay-1"])

	// replay keeps the latch at one win
	require.NoError(t, w.handlePaymentConfirmed(context.Background(), event))
	assert.Equal(t, 1, st.paymentLatchCalls)
}
