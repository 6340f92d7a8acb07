package model

import "time"

type ChatMessage struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	CommunityID uint64    `gorm:"not null;index:idx_chat_comm_id" json:"community_id"`
	AuthorID    uint64    `gorm:"not null;index" json:"author_id"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}
