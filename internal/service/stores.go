package service

import (
	"context"
	"time"

	"campfire/internal/model"
)

// Persistence interfaces consumed by the services. The mysql and redis
// repositories satisfy them; tests substitute mocks.

type UserStore interface {
	Create(ctx context.Context, user *model.User, sub *model.Subscription) error
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uint64, hash string) error
}

type PlanStore interface {
	FindFree(ctx context.Context) (*model.Plan, error)
	FindSubscriptionByUser(ctx context.Context, userID uint64) (*model.Subscription, error)
}

type CommunityStore interface {
	Create(ctx context.Context, c *model.Community) error
	FindByID(ctx context.Context, id uint64) (*model.Community, error)
	FindByRef(ctx context.Context, ref string) (*model.Community, error)
	List(ctx context.Context, offset, limit int) ([]model.Community, error)
}

type MemberStore interface {
	Find(ctx context.Context, communityID, userID uint64) (*model.CommunityMember, error)
	JoinWithAward(ctx context.Context, member *model.CommunityMember, points int64) error
	Leave(ctx context.Context, communityID, userID uint64) error
	UpdateLastRead(ctx context.Context, communityID, userID uint64, at time.Time) error
}

type CourseStore interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	CreateModule(ctx context.Context, m *model.CourseModule) error
	CreateLesson(ctx context.Context, l *model.Lesson) error
	FindCourseByID(ctx context.Context, id uint64) (*model.Course, error)
	ResolveModuleCourse(ctx context.Context, moduleID uint64) (*model.Course, error)
	ResolveLessonCourse(ctx context.Context, lessonID uint64) (*model.Course, error)
	ListByCommunity(ctx context.Context, communityID uint64, offset, limit int) ([]model.Course, error)
}

type EnrollmentStore interface {
	Find(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error)
	EnrollWithAward(ctx context.Context, e *model.Enrollment, points int64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Enrollment, error)
}

type ProgressStore interface {
	Upsert(ctx context.Context, userID, lessonID uint64, isCompleted *bool, timeSpent *int64, completionPoints int64) (*model.LessonProgress, bool, error)
	Find(ctx context.Context, userID, lessonID uint64) (*model.LessonProgress, error)
}

type ChatStore interface {
	Create(ctx context.Context, m *model.ChatMessage) error
	ListByCommunityCursor(ctx context.Context, communityID, cursor uint64, limit int) ([]model.ChatMessage, uint64, error)
	CountUnread(ctx context.Context, communityID, userID uint64, since *time.Time) (int64, error)
}

type NotificationStore interface {
	CreateWithOutbox(ctx context.Context, n *model.Notification, push bool) error
	FindSetting(ctx context.Context, userID, communityID uint64, typ model.NotificationType) (*model.NotificationSetting, error)
	UpsertSetting(ctx context.Context, s *model.NotificationSetting) error
	ListByRecipient(ctx context.Context, userID uint64, offset, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string, userID uint64) error
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	ListPendingOutbox(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error)
	MarkOutboxSent(ctx context.Context, id uint64) error
	MarkOutboxFailed(ctx context.Context, id uint64) error
}

type SessionStore interface {
	AddUserToken(ctx context.Context, userID uint64, token string) error
	DeleteUserToken(ctx context.Context, userID uint64) error
}

type CodeStore interface {
	SetPending(ctx context.Context, email, code string) error
	Confirm(ctx context.Context, email string) error
	DeletePending(ctx context.Context, email string) error
	GetConfirmed(ctx context.Context, email string) (string, error)
	DeleteConfirmed(ctx context.Context, email string) error
}

type UnreadCache interface {
	Get(ctx context.Context, communityID, userID uint64) (int64, bool, error)
	Set(ctx context.Context, communityID, userID uint64, n int64) error
	Invalidate(ctx context.Context, communityID, userID uint64) error
}

// Notifier is how mutating services hand events to the dispatcher. A
// Suppressed result is not a failure; callers at most log errors.
type Notifier interface {
	Dispatch(ctx context.Context, ev Event) (DispatchResult, error)
}

// EmailSender abstracts the SMTP sender so the dispatcher can run without a
// mail server in tests and in environments with no SMTP configured.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}
