package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

type CourseService struct {
	courses     CourseStore
	enrollments EnrollmentStore
	members     MemberStore
	authz       *Authorizer
	notifier    Notifier
}

func NewCourseService(courses CourseStore, enrollments EnrollmentStore, members MemberStore, authz *Authorizer, notifier Notifier) *CourseService {
	return &CourseService{
		courses:     courses,
		enrollments: enrollments,
		members:     members,
		authz:       authz,
		notifier:    notifier,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, userID, communityID uint64, title, desc string, isFree bool) (*model.Course, error) {
	if title == "" {
		return nil, pkg.E(pkg.KindValidation, "course title required")
	}
	if err := s.authz.CanManageCommunity(ctx, userID, communityID); err != nil {
		return nil, err
	}
	course := &model.Course{
		CommunityID: communityID,
		CreatorID:   userID,
		Title:       title,
		Description: desc,
		IsFree:      isFree,
	}
	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "course create failed", err)
	}
	return course, nil
}

func (s *CourseService) CreateModule(ctx context.Context, userID, courseID uint64, title string, position int) (*model.CourseModule, error) {
	if title == "" {
		return nil, pkg.E(pkg.KindValidation, "module title required")
	}
	if err := s.authz.CanManageCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}
	module := &model.CourseModule{
		CourseID: courseID,
		Title:    title,
		Position: position,
	}
	if err := s.courses.CreateModule(ctx, module); err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "module create failed", err)
	}
	return module, nil
}

func (s *CourseService) CreateLesson(ctx context.Context, userID, moduleID uint64, title, content string, position int) (*model.Lesson, error) {
	if title == "" {
		return nil, pkg.E(pkg.KindValidation, "lesson title required")
	}
	if err := s.authz.CanManageModule(ctx, userID, moduleID); err != nil {
		return nil, err
	}
	lesson := &model.Lesson{
		ModuleID: moduleID,
		Title:    title,
		Content:  content,
		Position: position,
	}
	if err := s.courses.CreateLesson(ctx, lesson); err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "lesson create failed", err)
	}
	return lesson, nil
}

// Enroll creates the enrollment and awards points in one transaction.
// Membership in the course's community is required first; the
// (user, course) unique key settles concurrent enrollments.
func (s *CourseService) Enroll(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	course, err := s.courses.FindCourseByID(ctx, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindNotFound, "course not found")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "course lookup failed", err)
	}

	if _, err := s.members.Find(ctx, course.CommunityID, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindForbidden, "join the community before enrolling")
	} else if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "membership lookup failed", err)
	}

	if !course.IsFree {
		return nil, pkg.E(pkg.KindUnsupported, "enrolling in paid courses is not supported yet")
	}

	if _, err := s.enrollments.Find(ctx, userID, courseID); err == nil {
		return nil, pkg.E(pkg.KindConflict, "already enrolled")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.Wrap(pkg.KindInternal, "enrollment lookup failed", err)
	}

	enrollment := &model.Enrollment{UserID: userID, CourseID: courseID}
	err = s.enrollments.EnrollWithAward(ctx, enrollment, PointsEnrollCourse)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, pkg.E(pkg.KindConflict, "already enrolled")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "enrollment failed", err)
	}

	if course.CreatorID != userID {
		_, err := s.notifier.Dispatch(ctx, Event{
			RecipientID: course.CreatorID,
			ActorID:     &userID,
			Type:        model.NotifCourseEnrolled,
			CommunityID: &course.CommunityID,
			EntityType:  "course",
			EntityID:    &course.ID,
			Title:       "New enrollment",
			Message:     "Someone enrolled in " + course.Title,
		})
		if err != nil {
			log.Printf("enroll notification dispatch failed: %v", err)
		}
	}
	return enrollment, nil
}

func (s *CourseService) ListByCommunity(ctx context.Context, communityID uint64, page, size int) ([]model.Course, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.courses.ListByCommunity(ctx, communityID, (page-1)*size, size)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "course list failed", err)
	}
	return list, nil
}
