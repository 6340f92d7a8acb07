package mysql

import (
	"context"

	"gorm.io/gorm"

	"campfire/internal/model"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts the user and, when sub is non-nil, its subscription in one
// transaction. Registration never half-completes.
func (r *UserRepository) Create(ctx context.Context, user *model.User, sub *model.Subscription) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if sub == nil {
			return nil
		}
		sub.UserID = user.ID
		return tx.Create(sub).Error
	})
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint64, hash string) error {
	return r.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", hash).Error
}

// awardPoints applies a relative increment so concurrent awards never lose
// updates; level is derived in the same statement.
func awardPoints(tx *gorm.DB, userID uint64, points int64) error {
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]any{
			"points": gorm.Expr("points + ?", points),
			"level":  gorm.Expr("(points + ?) DIV 100 + 1", points),
		}).Error
}
