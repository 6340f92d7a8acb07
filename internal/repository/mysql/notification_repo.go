package mysql

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campfire/internal/model"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// CreateWithOutbox persists the notification and, when push delivery is
// enabled, its outbox row in the same transaction. The relayer picks the
// outbox row up later; the request path never talks to Kafka.
func (r *NotificationRepository) CreateWithOutbox(ctx context.Context, n *model.Notification, push bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		if !push {
			return nil
		}
		payload, err := json.Marshal(n)
		if err != nil {
			return err
		}
		return tx.Create(&model.NotificationOutbox{
			NotificationID: n.ID,
			RecipientID:    n.RecipientID,
			Payload:        string(payload),
			Status:         model.OutboxPending,
		}).Error
	})
}

// FindSetting looks up one preference row; communityID model.ScopeGlobal
// selects the user's global default for the type. Absence returns (nil, nil).
func (r *NotificationRepository) FindSetting(ctx context.Context, userID, communityID uint64, typ model.NotificationType) (*model.NotificationSetting, error) {
	var setting model.NotificationSetting
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND community_id = ? AND type = ?", userID, communityID, typ).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpsertSetting inserts or overwrites the flags for the setting's
// (user, community, type) key.
func (r *NotificationRepository) UpsertSetting(ctx context.Context, s *model.NotificationSetting) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "community_id"}, {Name: "type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"in_app_enabled", "email_enabled", "push_enabled",
		}),
	}).Create(s).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID uint64, offset, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.DB.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// MarkRead is idempotent. The MySQL driver reports changed rows, not found
// rows, so an already-read notification updates zero rows; distinguish that
// from a missing one with an existence check instead of RowsAffected alone.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, userID uint64) error {
	res := r.DB.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, userID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) ListPendingOutbox(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error) {
	var list []model.NotificationOutbox
	err := r.DB.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) MarkOutboxSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).
		Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

func (r *NotificationRepository) MarkOutboxFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).
		Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": model.OutboxFailed,
			"retry":  gorm.Expr("retry + 1"),
		}).Error
}
