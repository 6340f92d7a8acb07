package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

type ChatService struct {
	chats   ChatStore
	members MemberStore
	unread  UnreadCache
}

func NewChatService(chats ChatStore, members MemberStore, unread UnreadCache) *ChatService {
	return &ChatService{chats: chats, members: members, unread: unread}
}

func (s *ChatService) requireMember(ctx context.Context, communityID, userID uint64) (*model.CommunityMember, error) {
	member, err := s.members.Find(ctx, communityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindForbidden, "not a member")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "membership lookup failed", err)
	}
	return member, nil
}

func (s *ChatService) Send(ctx context.Context, userID, communityID uint64, body string) (*model.ChatMessage, error) {
	if body == "" {
		return nil, pkg.E(pkg.KindValidation, "message body required")
	}
	if _, err := s.requireMember(ctx, communityID, userID); err != nil {
		return nil, err
	}
	msg := &model.ChatMessage{
		CommunityID: communityID,
		AuthorID:    userID,
		Body:        body,
	}
	if err := s.chats.Create(ctx, msg); err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "message create failed", err)
	}
	return msg, nil
}

func (s *ChatService) List(ctx context.Context, userID, communityID, cursor uint64, limit int) ([]model.ChatMessage, uint64, error) {
	if _, err := s.requireMember(ctx, communityID, userID); err != nil {
		return nil, 0, err
	}
	list, next, err := s.chats.ListByCommunityCursor(ctx, communityID, cursor, limit)
	if err != nil {
		return nil, 0, pkg.Wrap(pkg.KindInternal, "message list failed", err)
	}
	return list, next, nil
}

func (s *ChatService) MarkRead(ctx context.Context, userID, communityID uint64) error {
	if _, err := s.requireMember(ctx, communityID, userID); err != nil {
		return err
	}
	if err := s.members.UpdateLastRead(ctx, communityID, userID, time.Now()); err != nil {
		return pkg.Wrap(pkg.KindInternal, "read marker update failed", err)
	}
	_ = s.unread.Invalidate(ctx, communityID, userID)
	return nil
}

// UnreadCount reads through the cache; a short TTL bounds staleness and the
// MySQL count rebuilds the key on miss. Membership is checked before the
// cache so a leaver cannot keep reading a still-warm key.
func (s *ChatService) UnreadCount(ctx context.Context, userID, communityID uint64) (int64, error) {
	member, err := s.requireMember(ctx, communityID, userID)
	if err != nil {
		return 0, err
	}
	if v, ok, err := s.unread.Get(ctx, communityID, userID); err == nil && ok {
		return v, nil
	}
	n, err := s.chats.CountUnread(ctx, communityID, userID, member.LastReadAt)
	if err != nil {
		return 0, pkg.Wrap(pkg.KindInternal, "unread count failed", err)
	}
	_ = s.unread.Set(ctx, communityID, userID, n)
	return n, nil
}
