package mysql

import (
	"context"

	"gorm.io/gorm"

	"campfire/internal/model"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) CreateCourse(ctx context.Context, c *model.Course) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CourseRepository) CreateModule(ctx context.Context, m *model.CourseModule) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *CourseRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(l).Error
}

func (r *CourseRepository) FindCourseByID(ctx context.Context, id uint64) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	return &course, err
}

// ResolveModuleCourse walks a module up to the course that owns it.
func (r *CourseRepository) ResolveModuleCourse(ctx context.Context, moduleID uint64) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Model(&model.Course{}).
		Joins("JOIN course_modules ON course_modules.course_id = courses.id").
		Where("course_modules.id = ?", moduleID).
		First(&course).Error
	return &course, err
}

// ResolveLessonCourse walks a lesson up through its module to the owning
// course.
func (r *CourseRepository) ResolveLessonCourse(ctx context.Context, lessonID uint64) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Model(&model.Course{}).
		Joins("JOIN course_modules ON course_modules.course_id = courses.id").
		Joins("JOIN lessons ON lessons.module_id = course_modules.id").
		Where("lessons.id = ?", lessonID).
		First(&course).Error
	return &course, err
}

func (r *CourseRepository) ListByCommunity(ctx context.Context, communityID uint64, offset, limit int) ([]model.Course, error) {
	var list []model.Course
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}
