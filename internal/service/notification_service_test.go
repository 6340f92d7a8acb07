package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

func joinEvent(communityID uint64) Event {
	actor := uint64(2)
	return Event{
		RecipientID: 1,
		ActorID:     &actor,
		Type:        model.NotifCommunityJoined,
		CommunityID: &communityID,
		EntityType:  "community",
		EntityID:    &communityID,
		Title:       "New member",
		Message:     "Someone joined",
	}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("no settings falls back to in-app on, push off", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		store.On("FindSetting", ctx, uint64(1), mock.Anything, model.NotifCommunityJoined).
			Return(nil, nil).Twice()
		store.On("CreateWithOutbox", ctx, mock.MatchedBy(func(n *model.Notification) bool {
			return n.ID != "" && n.RecipientID == 1 && n.Type == model.NotifCommunityJoined
		}), false).Return(nil)

		res, err := svc.Dispatch(ctx, joinEvent(7))
		require.NoError(t, err)
		assert.Equal(t, DispatchCreated, res.Status)
		require.NotNil(t, res.Notification)
		assert.False(t, res.Notification.IsRead)
		store.AssertExpectations(t)
	})

	t.Run("community setting with in-app off suppresses", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		store.On("FindSetting", ctx, uint64(1), uint64(7), model.NotifCommunityJoined).
			Return(&model.NotificationSetting{InAppEnabled: false}, nil)

		res, err := svc.Dispatch(ctx, joinEvent(7))
		require.NoError(t, err)
		assert.Equal(t, DispatchSuppressed, res.Status)
		assert.Nil(t, res.Notification)
		store.AssertNotCalled(t, "CreateWithOutbox", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("community setting shadows a permissive global one", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		store.On("FindSetting", ctx, uint64(1), uint64(7), model.NotifCommunityJoined).
			Return(&model.NotificationSetting{InAppEnabled: false}, nil)

		res, err := svc.Dispatch(ctx, joinEvent(7))
		require.NoError(t, err)
		assert.Equal(t, DispatchSuppressed, res.Status)
		// The global lookup must not run once the scoped setting answered.
		store.AssertNumberOfCalls(t, "FindSetting", 1)
	})

	t.Run("missing community setting falls back to global", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		store.On("FindSetting", ctx, uint64(1), uint64(7), model.NotifCommunityJoined).
			Return(nil, nil)
		store.On("FindSetting", ctx, uint64(1), model.ScopeGlobal, model.NotifCommunityJoined).
			Return(&model.NotificationSetting{InAppEnabled: true, PushEnabled: true}, nil)
		store.On("CreateWithOutbox", ctx, mock.Anything, true).Return(nil)

		res, err := svc.Dispatch(ctx, joinEvent(7))
		require.NoError(t, err)
		assert.Equal(t, DispatchCreated, res.Status)
		store.AssertExpectations(t)
	})

	t.Run("global opt-out suppresses community events", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		store.On("FindSetting", ctx, uint64(1), uint64(7), model.NotifCommunityJoined).
			Return(nil, nil)
		store.On("FindSetting", ctx, uint64(1), model.ScopeGlobal, model.NotifCommunityJoined).
			Return(&model.NotificationSetting{InAppEnabled: false}, nil)

		res, err := svc.Dispatch(ctx, joinEvent(7))
		require.NoError(t, err)
		assert.Equal(t, DispatchSuppressed, res.Status)
		store.AssertNotCalled(t, "CreateWithOutbox", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure is surfaced, never a silent nil", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		store.On("FindSetting", ctx, uint64(1), mock.Anything, model.NotifCommunityJoined).
			Return(nil, nil).Twice()
		store.On("CreateWithOutbox", ctx, mock.Anything, false).
			Return(assert.AnError)

		_, err := svc.Dispatch(ctx, joinEvent(7))
		assert.Equal(t, pkg.KindInternal, pkg.KindOf(err))
	})

	t.Run("email failure does not fail a persisted dispatch", func(t *testing.T) {
		store := new(mockNotificationStore)
		users := new(mockUserStore)
		mailer := new(mockEmailSender)
		svc := NewNotificationService(store, users, mailer)

		store.On("FindSetting", ctx, uint64(1), mock.Anything, model.NotifCommunityJoined).
			Return(&model.NotificationSetting{InAppEnabled: true, EmailEnabled: true}, nil)
		store.On("CreateWithOutbox", ctx, mock.Anything, false).Return(nil)
		users.On("FindByID", ctx, uint64(1)).Return(&model.User{ID: 1, Email: "owner@example.com"}, nil)
		mailer.On("Send", "owner@example.com", "New member", "Someone joined").Return(assert.AnError)

		res, err := svc.Dispatch(ctx, joinEvent(7))
		require.NoError(t, err)
		assert.Equal(t, DispatchCreated, res.Status)
		mailer.AssertExpectations(t)
	})
}

func TestUpdateSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("community scope", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		communityID := uint64(7)
		store.On("UpsertSetting", ctx, mock.MatchedBy(func(s *model.NotificationSetting) bool {
			return s.UserID == 1 && s.CommunityID == 7 && !s.InAppEnabled
		})).Return(nil)

		setting, err := svc.UpdateSetting(ctx, 1, &communityID, model.NotifChatMessage, false, false, false)
		require.NoError(t, err)
		assert.False(t, setting.InAppEnabled)
	})

	t.Run("nil community writes the global scope row", func(t *testing.T) {
		store := new(mockNotificationStore)
		svc := NewNotificationService(store, new(mockUserStore), nil)

		store.On("UpsertSetting", ctx, mock.MatchedBy(func(s *model.NotificationSetting) bool {
			return s.UserID == 1 && s.CommunityID == model.ScopeGlobal
		})).Return(nil)

		setting, err := svc.UpdateSetting(ctx, 1, nil, model.NotifChatMessage, false, true, false)
		require.NoError(t, err)
		assert.Equal(t, model.ScopeGlobal, setting.CommunityID)
	})
}
