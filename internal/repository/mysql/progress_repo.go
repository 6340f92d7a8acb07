package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campfire/internal/model"
)

type LessonProgressRepository struct {
	DB *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) *LessonProgressRepository {
	return &LessonProgressRepository{DB: db}
}

// Upsert creates or updates the (user, lesson) progress row. time_spent is
// accumulated with a relative SQL increment; is_completed is overwritten when
// supplied. The completion award fires at most once per row: the decision is
// taken from completed_at read under a row lock, and completed_at is never
// cleared once set. Returns the resulting row and whether points were awarded.
func (r *LessonProgressRepository) Upsert(ctx context.Context, userID, lessonID uint64, isCompleted *bool, timeSpent *int64, completionPoints int64) (*model.LessonProgress, bool, error) {
	var (
		out     model.LessonProgress
		awarded bool
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.LessonProgress
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			First(&cur).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			cur = model.LessonProgress{UserID: userID, LessonID: lessonID}
			if isCompleted != nil {
				cur.IsCompleted = *isCompleted
			}
			if timeSpent != nil {
				cur.TimeSpent = *timeSpent
			}
			if cur.IsCompleted {
				now := time.Now()
				cur.CompletedAt = &now
			}
			if err := tx.Create(&cur).Error; err != nil {
				return err
			}
			if cur.IsCompleted {
				awarded = true
				if err := awardPoints(tx, userID, completionPoints); err != nil {
					return err
				}
			}
			out = cur
			return nil
		}
		if err != nil {
			return err
		}

		firstCompletion := isCompleted != nil && *isCompleted && cur.CompletedAt == nil

		updates := map[string]any{}
		if timeSpent != nil {
			updates["time_spent"] = gorm.Expr("time_spent + ?", *timeSpent)
			cur.TimeSpent += *timeSpent
		}
		if isCompleted != nil {
			updates["is_completed"] = *isCompleted
			cur.IsCompleted = *isCompleted
		}
		if firstCompletion {
			now := time.Now()
			updates["completed_at"] = now
			cur.CompletedAt = &now
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.LessonProgress{}).
				Where("id = ?", cur.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		if firstCompletion {
			awarded = true
			if err := awardPoints(tx, userID, completionPoints); err != nil {
				return err
			}
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, awarded, nil
}

func (r *LessonProgressRepository) Find(ctx context.Context, userID, lessonID uint64) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	return &progress, err
}
