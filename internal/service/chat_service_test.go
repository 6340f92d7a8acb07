package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

type mockChatStore struct{ mock.Mock }

func (m *mockChatStore) Create(ctx context.Context, msg *model.ChatMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockChatStore) ListByCommunityCursor(ctx context.Context, communityID, cursor uint64, limit int) ([]model.ChatMessage, uint64, error) {
	args := m.Called(ctx, communityID, cursor, limit)
	list, _ := args.Get(0).([]model.ChatMessage)
	return list, args.Get(1).(uint64), args.Error(2)
}

func (m *mockChatStore) CountUnread(ctx context.Context, communityID, userID uint64, since *time.Time) (int64, error) {
	args := m.Called(ctx, communityID, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

type mockUnreadCache struct{ mock.Mock }

func (m *mockUnreadCache) Get(ctx context.Context, communityID, userID uint64) (int64, bool, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *mockUnreadCache) Set(ctx context.Context, communityID, userID uint64, n int64) error {
	return m.Called(ctx, communityID, userID, n).Error(0)
}

func (m *mockUnreadCache) Invalidate(ctx context.Context, communityID, userID uint64) error {
	return m.Called(ctx, communityID, userID).Error(0)
}

func TestChatSend(t *testing.T) {
	ctx := context.Background()

	t.Run("non-member may not post", func(t *testing.T) {
		chats := new(mockChatStore)
		members := new(mockMemberStore)
		svc := NewChatService(chats, members, new(mockUnreadCache))

		members.On("Find", ctx, uint64(7), uint64(2)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Send(ctx, 2, 7, "hello")
		assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))
		chats.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty body is Validation", func(t *testing.T) {
		svc := NewChatService(new(mockChatStore), new(mockMemberStore), new(mockUnreadCache))
		_, err := svc.Send(ctx, 2, 7, "")
		assert.Equal(t, pkg.KindValidation, pkg.KindOf(err))
	})
}

func TestChatUnreadCount(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the count query", func(t *testing.T) {
		chats := new(mockChatStore)
		members := new(mockMemberStore)
		unread := new(mockUnreadCache)
		svc := NewChatService(chats, members, unread)

		members.On("Find", ctx, uint64(7), uint64(2)).Return(&model.CommunityMember{}, nil)
		unread.On("Get", ctx, uint64(7), uint64(2)).Return(int64(4), true, nil)

		n, err := svc.UnreadCount(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
		chats.AssertNotCalled(t, "CountUnread", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a warm cache does not leak counts to non-members", func(t *testing.T) {
		chats := new(mockChatStore)
		members := new(mockMemberStore)
		unread := new(mockUnreadCache)
		svc := NewChatService(chats, members, unread)

		members.On("Find", ctx, uint64(7), uint64(2)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.UnreadCount(ctx, 2, 7)
		assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))
		unread.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache miss counts and rebuilds the key", func(t *testing.T) {
		chats := new(mockChatStore)
		members := new(mockMemberStore)
		unread := new(mockUnreadCache)
		svc := NewChatService(chats, members, unread)

		lastRead := time.Now().Add(-time.Hour)
		unread.On("Get", ctx, uint64(7), uint64(2)).Return(int64(0), false, nil)
		members.On("Find", ctx, uint64(7), uint64(2)).
			Return(&model.CommunityMember{LastReadAt: &lastRead}, nil)
		chats.On("CountUnread", ctx, uint64(7), uint64(2), &lastRead).Return(int64(9), nil)
		unread.On("Set", ctx, uint64(7), uint64(2), int64(9)).Return(nil)

		n, err := svc.UnreadCount(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(9), n)
		unread.AssertExpectations(t)
	})
}

func TestChatMarkRead(t *testing.T) {
	ctx := context.Background()

	chats := new(mockChatStore)
	members := new(mockMemberStore)
	unread := new(mockUnreadCache)
	svc := NewChatService(chats, members, unread)

	members.On("Find", ctx, uint64(7), uint64(2)).Return(&model.CommunityMember{}, nil)
	members.On("UpdateLastRead", ctx, uint64(7), uint64(2), mock.AnythingOfType("time.Time")).Return(nil)
	unread.On("Invalidate", ctx, uint64(7), uint64(2)).Return(nil)

	require.NoError(t, svc.MarkRead(ctx, 2, 7))
	unread.AssertExpectations(t)
}
