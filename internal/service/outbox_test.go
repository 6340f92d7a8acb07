package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"campfire/internal/model"
)

func TestOutboxDrainOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("sent rows are marked sent", func(t *testing.T) {
		store := new(mockNotificationStore)
		sent := 0
		relayer := NewOutboxRelayer(store, func(ctx context.Context, entry *model.NotificationOutbox) error {
			sent++
			return nil
		})

		store.On("ListPendingOutbox", ctx, 200).Return([]model.NotificationOutbox{
			{ID: 1, NotificationID: "a", RecipientID: 1},
			{ID: 2, NotificationID: "b", RecipientID: 2},
		}, nil)
		store.On("MarkOutboxSent", ctx, uint64(1)).Return(nil)
		store.On("MarkOutboxSent", ctx, uint64(2)).Return(nil)

		relayer.drainOnce(ctx)

		if sent != 2 {
			t.Fatalf("sent %d entries, want 2", sent)
		}
		store.AssertExpectations(t)
	})

	t.Run("a failed send marks only that row failed", func(t *testing.T) {
		store := new(mockNotificationStore)
		relayer := NewOutboxRelayer(store, func(ctx context.Context, entry *model.NotificationOutbox) error {
			if entry.ID == 1 {
				return errors.New("broker down")
			}
			return nil
		})

		store.On("ListPendingOutbox", ctx, 200).Return([]model.NotificationOutbox{
			{ID: 1}, {ID: 2},
		}, nil)
		store.On("MarkOutboxFailed", ctx, uint64(1)).Return(nil)
		store.On("MarkOutboxSent", ctx, uint64(2)).Return(nil)

		relayer.drainOnce(ctx)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "MarkOutboxSent", ctx, uint64(1))
	})

	t.Run("query failure skips the batch", func(t *testing.T) {
		store := new(mockNotificationStore)
		relayer := NewOutboxRelayer(store, func(ctx context.Context, entry *model.NotificationOutbox) error {
			t.Fatal("sender must not run")
			return nil
		})

		store.On("ListPendingOutbox", ctx, 200).Return(nil, errors.New("db down"))

		relayer.drainOnce(ctx)
		store.AssertNotCalled(t, "MarkOutboxFailed", mock.Anything, mock.Anything)
	})
}
