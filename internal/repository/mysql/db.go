package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"campfire/internal/model"
)

// InitDB opens the MySQL connection. TranslateError turns driver duplicate-key
// failures into gorm.ErrDuplicatedKey so uniqueness races can be mapped to
// conflict outcomes instead of surfacing as raw SQL errors.
func InitDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Plan{},
		&model.Subscription{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.ChatMessage{},
		&model.Notification{},
		&model.NotificationSetting{},
		&model.NotificationOutbox{},
	)
}
