package model

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:32" json:"username,omitempty"`
	Email     string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Points    int64     `gorm:"not null;default:0" json:"points"`
	Level     int       `gorm:"not null;default:1" json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type Plan struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	PriceCents int64     `gorm:"not null;default:0" json:"price_cents"`
	IsFree     bool      `gorm:"not null;default:0" json:"is_free"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

const SubscriptionActive = "active"

type Subscription struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex" json:"user_id"`
	PlanID    uint64    `gorm:"not null;index" json:"plan_id"`
	Status    string    `gorm:"size:16;not null;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
