package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

// Event describes something that happened to a recipient: who did it, what
// kind of thing it was, and what it touched.
type Event struct {
	RecipientID uint64
	ActorID     *uint64
	Type        model.NotificationType
	CommunityID *uint64
	EntityType  string
	EntityID    *uint64
	Title       string
	Message     string
	Data        model.JSONMap
}

type DispatchStatus int8

const (
	DispatchCreated DispatchStatus = iota + 1
	DispatchSuppressed
)

// DispatchResult distinguishes a persisted notification from one suppressed
// by preference. Persistence failures are returned as errors, never as a
// silent nil.
type DispatchResult struct {
	Status       DispatchStatus
	Notification *model.Notification
}

type NotificationService struct {
	store  NotificationStore
	users  UserStore
	mailer EmailSender // nil when no SMTP is configured
}

func NewNotificationService(store NotificationStore, users UserStore, mailer EmailSender) *NotificationService {
	return &NotificationService{store: store, users: users, mailer: mailer}
}

// Dispatch resolves the recipient's preference for the event and persists a
// notification when in-app delivery is enabled. Resolution order: the
// community-scoped setting, then the global setting, then the opt-out
// default of in-app on, email and push off.
func (s *NotificationService) Dispatch(ctx context.Context, ev Event) (DispatchResult, error) {
	var (
		setting *model.NotificationSetting
		err     error
	)
	if ev.CommunityID != nil {
		setting, err = s.store.FindSetting(ctx, ev.RecipientID, *ev.CommunityID, ev.Type)
		if err != nil {
			return DispatchResult{}, pkg.Wrap(pkg.KindInternal, "notification setting lookup failed", err)
		}
	}
	if setting == nil {
		setting, err = s.store.FindSetting(ctx, ev.RecipientID, model.ScopeGlobal, ev.Type)
		if err != nil {
			return DispatchResult{}, pkg.Wrap(pkg.KindInternal, "notification setting lookup failed", err)
		}
	}

	inApp, email, push := true, false, false
	if setting != nil {
		inApp, email, push = setting.InAppEnabled, setting.EmailEnabled, setting.PushEnabled
	}
	if !inApp {
		return DispatchResult{Status: DispatchSuppressed}, nil
	}

	n := &model.Notification{
		ID:          uuid.NewString(),
		RecipientID: ev.RecipientID,
		Type:        ev.Type,
		ActorID:     ev.ActorID,
		EntityType:  ev.EntityType,
		EntityID:    ev.EntityID,
		CommunityID: ev.CommunityID,
		Title:       ev.Title,
		Message:     ev.Message,
		Data:        ev.Data,
	}
	if err := s.store.CreateWithOutbox(ctx, n, push); err != nil {
		return DispatchResult{}, pkg.Wrap(pkg.KindInternal, "notification create failed", err)
	}

	if email {
		s.sendEmail(ctx, n)
	}

	return DispatchResult{Status: DispatchCreated, Notification: n}, nil
}

// sendEmail is best effort: an SMTP failure never fails a dispatch that has
// already persisted the in-app record.
func (s *NotificationService) sendEmail(ctx context.Context, n *model.Notification) {
	if s.mailer == nil {
		return
	}
	recipient, err := s.users.FindByID(ctx, n.RecipientID)
	if err != nil {
		log.Printf("notification email: recipient %d lookup failed: %v", n.RecipientID, err)
		return
	}
	if err := s.mailer.Send(recipient.Email, n.Title, n.Message); err != nil {
		log.Printf("notification email to %s failed: %v", recipient.Email, err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uint64, page, size int) ([]model.Notification, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.store.ListByRecipient(ctx, userID, (page-1)*size, size)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "notification list failed", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uint64, id string) error {
	err := s.store.MarkRead(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.E(pkg.KindNotFound, "notification not found")
	}
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "notification update failed", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	n, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return 0, pkg.Wrap(pkg.KindInternal, "notification count failed", err)
	}
	return n, nil
}

// UpdateSetting overwrites the delivery flags for one (community, type) key
// of the acting user; nil community updates the global default.
func (s *NotificationService) UpdateSetting(ctx context.Context, userID uint64, communityID *uint64, typ model.NotificationType, inApp, email, push bool) (*model.NotificationSetting, error) {
	scope := model.ScopeGlobal
	if communityID != nil {
		scope = *communityID
	}
	setting := &model.NotificationSetting{
		UserID:       userID,
		CommunityID:  scope,
		Type:         typ,
		InAppEnabled: inApp,
		EmailEnabled: email,
		PushEnabled:  push,
	}
	if err := s.store.UpsertSetting(ctx, setting); err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "notification setting update failed", err)
	}
	return setting, nil
}
