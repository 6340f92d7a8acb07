package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"campfire/internal/model"
)

type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

// FindFree returns the free plan, or nil when none is configured. Absence is
// not an error here; the caller decides how loudly to complain.
func (r *PlanRepository) FindFree(ctx context.Context) (*model.Plan, error) {
	var plan model.Plan
	err := r.DB.WithContext(ctx).Where("is_free = ?", true).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) FindSubscriptionByUser(ctx context.Context, userID uint64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	return &sub, err
}
