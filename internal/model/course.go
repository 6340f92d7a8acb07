package model

import "time"

type Course struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	CommunityID uint64    `gorm:"not null;index" json:"community_id"`
	CreatorID   uint64    `gorm:"not null;index" json:"creator_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	IsFree      bool      `gorm:"not null;default:1" json:"is_free"`
	Published   bool      `gorm:"not null;default:0" json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

type CourseModule struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	CourseID  uint64    `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type Lesson struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	ModuleID  uint64    `gorm:"not null;index" json:"module_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type Enrollment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_course" json:"user_id"`
	CourseID  uint64    `gorm:"not null;index;uniqueIndex:uk_user_course" json:"course_id"`
	Progress  float64   `gorm:"not null;default:0" json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// LessonProgress accumulates time_spent across updates; is_completed is
// overwritten when supplied. CompletedAt is set once, on the first
// completion, and never cleared; it is the monotonic flag the point award
// keys off.
type LessonProgress struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	UserID      uint64     `gorm:"not null;index;uniqueIndex:uk_user_lesson" json:"user_id"`
	LessonID    uint64     `gorm:"not null;index;uniqueIndex:uk_user_lesson" json:"lesson_id"`
	IsCompleted bool       `gorm:"not null;default:0" json:"is_completed"`
	TimeSpent   int64      `gorm:"not null;default:0" json:"time_spent"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
