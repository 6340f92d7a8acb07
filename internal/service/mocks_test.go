package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"campfire/internal/model"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, user *model.User, sub *model.Subscription) error {
	return m.Called(ctx, user, sub).Error(0)
}

func (m *mockUserStore) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, userID uint64, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

type mockPlanStore struct{ mock.Mock }

func (m *mockPlanStore) FindFree(ctx context.Context) (*model.Plan, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(*model.Plan)
	return p, args.Error(1)
}

func (m *mockPlanStore) FindSubscriptionByUser(ctx context.Context, userID uint64) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*model.Subscription)
	return s, args.Error(1)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) AddUserToken(ctx context.Context, userID uint64, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *mockSessionStore) DeleteUserToken(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockCodeMailer struct{ mock.Mock }

func (m *mockCodeMailer) SendResetCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockCodeMailer) VerifyResetCode(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

type mockCommunityStore struct{ mock.Mock }

func (m *mockCommunityStore) Create(ctx context.Context, c *model.Community) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCommunityStore) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Community)
	return c, args.Error(1)
}

func (m *mockCommunityStore) FindByRef(ctx context.Context, ref string) (*model.Community, error) {
	args := m.Called(ctx, ref)
	c, _ := args.Get(0).(*model.Community)
	return c, args.Error(1)
}

func (m *mockCommunityStore) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	args := m.Called(ctx, offset, limit)
	list, _ := args.Get(0).([]model.Community)
	return list, args.Error(1)
}

type mockMemberStore struct{ mock.Mock }

func (m *mockMemberStore) Find(ctx context.Context, communityID, userID uint64) (*model.CommunityMember, error) {
	args := m.Called(ctx, communityID, userID)
	mm, _ := args.Get(0).(*model.CommunityMember)
	return mm, args.Error(1)
}

func (m *mockMemberStore) JoinWithAward(ctx context.Context, member *model.CommunityMember, points int64) error {
	return m.Called(ctx, member, points).Error(0)
}

func (m *mockMemberStore) Leave(ctx context.Context, communityID, userID uint64) error {
	return m.Called(ctx, communityID, userID).Error(0)
}

func (m *mockMemberStore) UpdateLastRead(ctx context.Context, communityID, userID uint64, at time.Time) error {
	return m.Called(ctx, communityID, userID, at).Error(0)
}

type mockCourseStore struct{ mock.Mock }

func (m *mockCourseStore) CreateCourse(ctx context.Context, c *model.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCourseStore) CreateModule(ctx context.Context, cm *model.CourseModule) error {
	return m.Called(ctx, cm).Error(0)
}

func (m *mockCourseStore) CreateLesson(ctx context.Context, l *model.Lesson) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockCourseStore) FindCourseByID(ctx context.Context, id uint64) (*model.Course, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *mockCourseStore) ResolveModuleCourse(ctx context.Context, moduleID uint64) (*model.Course, error) {
	args := m.Called(ctx, moduleID)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *mockCourseStore) ResolveLessonCourse(ctx context.Context, lessonID uint64) (*model.Course, error) {
	args := m.Called(ctx, lessonID)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *mockCourseStore) ListByCommunity(ctx context.Context, communityID uint64, offset, limit int) ([]model.Course, error) {
	args := m.Called(ctx, communityID, offset, limit)
	list, _ := args.Get(0).([]model.Course)
	return list, args.Error(1)
}

type mockEnrollmentStore struct{ mock.Mock }

func (m *mockEnrollmentStore) Find(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Error(1)
}

func (m *mockEnrollmentStore) EnrollWithAward(ctx context.Context, e *model.Enrollment, points int64) error {
	return m.Called(ctx, e, points).Error(0)
}

func (m *mockEnrollmentStore) ListByUser(ctx context.Context, userID uint64) ([]model.Enrollment, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Enrollment)
	return list, args.Error(1)
}

type mockProgressStore struct{ mock.Mock }

func (m *mockProgressStore) Upsert(ctx context.Context, userID, lessonID uint64, isCompleted *bool, timeSpent *int64, completionPoints int64) (*model.LessonProgress, bool, error) {
	args := m.Called(ctx, userID, lessonID, isCompleted, timeSpent, completionPoints)
	p, _ := args.Get(0).(*model.LessonProgress)
	return p, args.Bool(1), args.Error(2)
}

func (m *mockProgressStore) Find(ctx context.Context, userID, lessonID uint64) (*model.LessonProgress, error) {
	args := m.Called(ctx, userID, lessonID)
	p, _ := args.Get(0).(*model.LessonProgress)
	return p, args.Error(1)
}

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) CreateWithOutbox(ctx context.Context, n *model.Notification, push bool) error {
	return m.Called(ctx, n, push).Error(0)
}

func (m *mockNotificationStore) FindSetting(ctx context.Context, userID, communityID uint64, typ model.NotificationType) (*model.NotificationSetting, error) {
	args := m.Called(ctx, userID, communityID, typ)
	s, _ := args.Get(0).(*model.NotificationSetting)
	return s, args.Error(1)
}

func (m *mockNotificationStore) UpsertSetting(ctx context.Context, s *model.NotificationSetting) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockNotificationStore) ListByRecipient(ctx context.Context, userID uint64, offset, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, offset, limit)
	list, _ := args.Get(0).([]model.Notification)
	return list, args.Error(1)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, id string, userID uint64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockNotificationStore) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationStore) ListPendingOutbox(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error) {
	args := m.Called(ctx, batchSize)
	list, _ := args.Get(0).([]model.NotificationOutbox)
	return list, args.Error(1)
}

func (m *mockNotificationStore) MarkOutboxSent(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNotificationStore) MarkOutboxFailed(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Dispatch(ctx context.Context, ev Event) (DispatchResult, error) {
	args := m.Called(ctx, ev)
	res, _ := args.Get(0).(DispatchResult)
	return res, args.Error(1)
}

type mockEmailSender struct{ mock.Mock }

func (m *mockEmailSender) Send(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}
