package mysql

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"campfire/internal/model"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

// Create inserts the community and its creator's OWNER membership in one
// transaction.
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c.MemberCount = 1
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleOwner,
		}).Error
	})
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindBySlug(ctx context.Context, slug string) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&community).Error
	return &community, err
}

// FindByRef resolves a path parameter that may be a numeric id or a slug.
func (r *CommunityRepository) FindByRef(ctx context.Context, ref string) (*model.Community, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		return r.FindByID(ctx, id)
	}
	return r.FindBySlug(ctx, ref)
}

func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}
