package mysql

import (
	"context"

	"gorm.io/gorm"

	"campfire/internal/model"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Find(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

// EnrollWithAward inserts the enrollment and awards points in one
// transaction; the (user_id, course_id) unique key arbitrates races.
func (r *EnrollmentRepository) EnrollWithAward(ctx context.Context, e *model.Enrollment, points int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return awardPoints(tx, e.UserID, points)
	})
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&list).Error
	return list, err
}
