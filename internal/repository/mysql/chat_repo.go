package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campfire/internal/model"
)

type ChatMessageRepository struct {
	DB *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{DB: db}
}

func (r *ChatMessageRepository) Create(ctx context.Context, m *model.ChatMessage) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

// ListByCommunityCursor pages newest-first by id. cursor=0 means first page;
// limit+1 rows are fetched to decide whether a next cursor exists.
func (r *ChatMessageRepository) ListByCommunityCursor(ctx context.Context, communityID, cursor uint64, limit int) ([]model.ChatMessage, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := r.DB.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("community_id = ?", communityID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.ChatMessage
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// CountUnread counts messages from other members newer than the reader's
// last-read marker; a nil marker means everything is unread.
func (r *ChatMessageRepository) CountUnread(ctx context.Context, communityID, userID uint64, since *time.Time) (int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("community_id = ? AND author_id <> ?", communityID, userID)
	if since != nil {
		q = q.Where("created_at > ?", *since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
