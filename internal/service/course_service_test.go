package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

func freeCourse() *model.Course {
	return &model.Course{ID: 3, CommunityID: 7, CreatorID: 1, Title: "Go Basics", IsFree: true}
}

func newCourseService(courses *mockCourseStore, enrollments *mockEnrollmentStore, members *mockMemberStore, notifier *mockNotifier) *CourseService {
	authz := NewAuthorizer(new(mockCommunityStore), courses, members)
	return NewCourseService(courses, enrollments, members, authz, notifier)
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()

	t.Run("member enrolls, earns points, creator is notified", func(t *testing.T) {
		courses := new(mockCourseStore)
		enrollments := new(mockEnrollmentStore)
		members := new(mockMemberStore)
		notifier := new(mockNotifier)
		svc := newCourseService(courses, enrollments, members, notifier)

		courses.On("FindCourseByID", ctx, uint64(3)).Return(freeCourse(), nil)
		members.On("Find", ctx, uint64(7), uint64(2)).Return(&model.CommunityMember{}, nil)
		enrollments.On("Find", ctx, uint64(2), uint64(3)).Return(nil, gorm.ErrRecordNotFound)
		enrollments.On("EnrollWithAward", ctx, mock.MatchedBy(func(e *model.Enrollment) bool {
			return e.UserID == 2 && e.CourseID == 3
		}), PointsEnrollCourse).Return(nil)
		notifier.On("Dispatch", ctx, mock.MatchedBy(func(ev Event) bool {
			return ev.Type == model.NotifCourseEnrolled && ev.RecipientID == 1
		})).Return(DispatchResult{Status: DispatchCreated}, nil)

		enrollment, err := svc.Enroll(ctx, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), enrollment.CourseID)
		enrollments.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("non-member is Forbidden", func(t *testing.T) {
		courses := new(mockCourseStore)
		enrollments := new(mockEnrollmentStore)
		members := new(mockMemberStore)
		svc := newCourseService(courses, enrollments, members, new(mockNotifier))

		courses.On("FindCourseByID", ctx, uint64(3)).Return(freeCourse(), nil)
		members.On("Find", ctx, uint64(7), uint64(2)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Enroll(ctx, 2, 3)
		assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))
		enrollments.AssertNotCalled(t, "EnrollWithAward", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("paid course is Unsupported", func(t *testing.T) {
		courses := new(mockCourseStore)
		members := new(mockMemberStore)
		svc := newCourseService(courses, new(mockEnrollmentStore), members, new(mockNotifier))

		paid := freeCourse()
		paid.IsFree = false
		courses.On("FindCourseByID", ctx, uint64(3)).Return(paid, nil)
		members.On("Find", ctx, uint64(7), uint64(2)).Return(&model.CommunityMember{}, nil)

		_, err := svc.Enroll(ctx, 2, 3)
		assert.Equal(t, pkg.KindUnsupported, pkg.KindOf(err))
	})

	t.Run("losing an enroll race is Conflict", func(t *testing.T) {
		courses := new(mockCourseStore)
		enrollments := new(mockEnrollmentStore)
		members := new(mockMemberStore)
		svc := newCourseService(courses, enrollments, members, new(mockNotifier))

		courses.On("FindCourseByID", ctx, uint64(3)).Return(freeCourse(), nil)
		members.On("Find", ctx, uint64(7), uint64(2)).Return(&model.CommunityMember{}, nil)
		enrollments.On("Find", ctx, uint64(2), uint64(3)).Return(nil, gorm.ErrRecordNotFound)
		enrollments.On("EnrollWithAward", ctx, mock.Anything, PointsEnrollCourse).
			Return(gorm.ErrDuplicatedKey)

		_, err := svc.Enroll(ctx, 2, 3)
		assert.Equal(t, pkg.KindConflict, pkg.KindOf(err))
	})

	t.Run("unknown course is NotFound", func(t *testing.T) {
		courses := new(mockCourseStore)
		svc := newCourseService(courses, new(mockEnrollmentStore), new(mockMemberStore), new(mockNotifier))

		courses.On("FindCourseByID", ctx, uint64(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Enroll(ctx, 2, 99)
		assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
	})
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("plain member may not create", func(t *testing.T) {
		courses := new(mockCourseStore)
		members := new(mockMemberStore)
		communities := new(mockCommunityStore)
		authz := NewAuthorizer(communities, courses, members)
		svc := NewCourseService(courses, new(mockEnrollmentStore), members, authz, new(mockNotifier))

		communities.On("FindByID", ctx, uint64(7)).Return(&model.Community{ID: 7, CreatorID: 1}, nil)
		members.On("Find", ctx, uint64(7), uint64(2)).
			Return(&model.CommunityMember{Role: model.RoleMember}, nil)

		_, err := svc.CreateCourse(ctx, 2, 7, "Go Basics", "", true)
		assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))
		courses.AssertNotCalled(t, "CreateCourse", mock.Anything, mock.Anything)
	})
}
