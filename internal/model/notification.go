package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type NotificationType string

const (
	NotifCommunityJoined NotificationType = "community.joined"
	NotifCourseEnrolled  NotificationType = "course.enrolled"
	NotifLessonCompleted NotificationType = "lesson.completed"
	NotifChatMessage     NotificationType = "chat.message"
)

// JSONMap is an opaque payload column stored as JSON.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported JSON column type")
	}
}

type Notification struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id"`
	RecipientID uint64           `gorm:"not null;index" json:"recipient_id"`
	Type        NotificationType `gorm:"size:50;not null" json:"type"`
	ActorID     *uint64          `json:"actor_id,omitempty"`
	EntityType  string           `gorm:"size:32" json:"entity_type,omitempty"`
	EntityID    *uint64          `json:"entity_id,omitempty"`
	CommunityID *uint64          `gorm:"index" json:"community_id,omitempty"`
	Title       string           `gorm:"size:255" json:"title,omitempty"`
	Message     string           `gorm:"type:text" json:"message,omitempty"`
	Data        JSONMap          `gorm:"type:json" json:"data,omitempty"`
	IsRead      bool             `gorm:"not null;default:0" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"-"`
}

// ScopeGlobal is the community id of a user's global default setting for a
// type. The column must not be NULL: MySQL unique indexes allow any number
// of NULL duplicates, which would let repeated global upserts pile up rows
// instead of conflicting.
const ScopeGlobal uint64 = 0

// NotificationSetting holds per-user delivery flags for one notification
// type, either for one community or globally (community id ScopeGlobal). A
// community-scoped row overrides the global one.
type NotificationSetting struct {
	ID           uint64           `gorm:"primaryKey" json:"id"`
	UserID       uint64           `gorm:"not null;uniqueIndex:uk_user_comm_type" json:"user_id"`
	CommunityID  uint64           `gorm:"not null;default:0;uniqueIndex:uk_user_comm_type" json:"community_id"`
	Type         NotificationType `gorm:"size:50;not null;uniqueIndex:uk_user_comm_type" json:"type"`
	InAppEnabled bool             `gorm:"not null;default:1" json:"in_app_enabled"`
	EmailEnabled bool             `gorm:"not null;default:0" json:"email_enabled"`
	PushEnabled  bool             `gorm:"not null;default:0" json:"push_enabled"`
	CreatedAt    time.Time        `json:"-"`
	UpdatedAt    time.Time        `json:"-"`
}

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// NotificationOutbox queues push deliveries written in the same transaction
// as the notification row; a relayer drains it into Kafka.
type NotificationOutbox struct {
	ID             uint64    `gorm:"primaryKey"`
	NotificationID string    `gorm:"size:36;not null;index"`
	RecipientID    uint64    `gorm:"not null"`
	Payload        string    `gorm:"type:json;not null"`
	Status         int8      `gorm:"not null;default:0"`
	Retry          int       `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
