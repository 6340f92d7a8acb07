package model

import "time"

type MemberRole int8

const (
	RoleMember MemberRole = 0
	RoleAdmin  MemberRole = 1
	RoleOwner  MemberRole = 2
)

// CanManage reports whether the role alone grants mutating access to
// community-owned resources.
func (r MemberRole) CanManage() bool {
	return r == RoleAdmin || r == RoleOwner
}

type Community struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Name        string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uint64    `gorm:"not null;index" json:"creator_id"`
	IsFree      bool      `gorm:"not null;default:1" json:"is_free"`
	MemberCount int64     `gorm:"not null;default:0" json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

// CommunityMember links a user to a community. (community_id, user_id) is a
// natural key; the unique index is the final arbiter under racing joins.
type CommunityMember struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	CommunityID uint64     `gorm:"not null;index;uniqueIndex:uk_community_user" json:"community_id"`
	UserID      uint64     `gorm:"not null;index;uniqueIndex:uk_community_user" json:"user_id"`
	Role        MemberRole `gorm:"not null;default:0" json:"role"`
	LastReadAt  *time.Time `json:"last_read_at,omitempty"`
	JoinedAt    time.Time  `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt   time.Time  `json:"-"`
}
