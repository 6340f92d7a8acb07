package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

type ProgressService struct {
	progress    ProgressStore
	courses     CourseStore
	enrollments EnrollmentStore
	notifier    Notifier
}

func NewProgressService(progress ProgressStore, courses CourseStore, enrollments EnrollmentStore, notifier Notifier) *ProgressService {
	return &ProgressService{progress: progress, courses: courses, enrollments: enrollments, notifier: notifier}
}

// Update upserts the caller's progress on a lesson. Nil fields are left
// untouched; time spent accumulates across calls. The completion point
// award happens inside the repository transaction, at most once per lesson.
func (s *ProgressService) Update(ctx context.Context, userID, lessonID uint64, isCompleted *bool, timeSpent *int64) (*model.LessonProgress, error) {
	if timeSpent != nil && *timeSpent < 0 {
		return nil, pkg.E(pkg.KindValidation, "time_spent must be non-negative")
	}

	course, err := s.courses.ResolveLessonCourse(ctx, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindNotFound, "lesson not found")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "lesson lookup failed", err)
	}

	if _, err := s.enrollments.Find(ctx, userID, course.ID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindForbidden, "enroll in the course before tracking progress")
	} else if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "enrollment lookup failed", err)
	}

	progress, firstCompletion, err := s.progress.Upsert(ctx, userID, lessonID, isCompleted, timeSpent, PointsCompleteLesson)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Two first-writes raced; the loser retries against the row the
		// winner created.
		progress, firstCompletion, err = s.progress.Upsert(ctx, userID, lessonID, isCompleted, timeSpent, PointsCompleteLesson)
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "progress update failed", err)
	}

	if firstCompletion && course.CreatorID != userID {
		_, derr := s.notifier.Dispatch(ctx, Event{
			RecipientID: course.CreatorID,
			ActorID:     &userID,
			Type:        model.NotifLessonCompleted,
			CommunityID: &course.CommunityID,
			EntityType:  "lesson",
			EntityID:    &lessonID,
			Title:       "Lesson completed",
			Message:     "A student completed a lesson in " + course.Title,
		})
		if derr != nil {
			log.Printf("completion notification dispatch failed: %v", derr)
		}
	}
	return progress, nil
}

func (s *ProgressService) Get(ctx context.Context, userID, lessonID uint64) (*model.LessonProgress, error) {
	progress, err := s.progress.Find(ctx, userID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindNotFound, "no progress recorded")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "progress lookup failed", err)
	}
	return progress, nil
}
