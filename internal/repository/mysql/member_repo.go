package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campfire/internal/model"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

func NewCommunityMemberRepository(db *gorm.DB) *CommunityMemberRepository {
	return &CommunityMemberRepository{DB: db}
}

func (r *CommunityMemberRepository) Find(ctx context.Context, communityID, userID uint64) (*model.CommunityMember, error) {
	var member model.CommunityMember
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error
	return &member, err
}

// JoinWithAward inserts the membership, bumps the community's member count
// and awards points, all in one transaction. A racing duplicate insert
// surfaces as gorm.ErrDuplicatedKey and rolls everything back; the unique
// key on (community_id, user_id) is the final arbiter.
func (r *CommunityMemberRepository) JoinWithAward(ctx context.Context, member *model.CommunityMember, points int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Community{}).
			Where("id = ?", member.CommunityID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
			return err
		}
		return awardPoints(tx, member.UserID, points)
	})
}

func (r *CommunityMemberRepository) Leave(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.CommunityMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Leaving twice is idempotent; keep the count untouched.
			return nil
		}
		return tx.Model(&model.Community{}).
			Where("id = ?", communityID).
			UpdateColumn("member_count", gorm.Expr("GREATEST(0, member_count - 1)")).Error
	})
}

func (r *CommunityMemberRepository) UpdateLastRead(ctx context.Context, communityID, userID uint64, at time.Time) error {
	res := r.DB.WithContext(ctx).
		Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("last_read_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
