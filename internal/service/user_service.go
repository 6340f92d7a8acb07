package service

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

// CodeMailer is the slice of EmailService the user flows need.
type CodeMailer interface {
	SendResetCode(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) (bool, error)
}

type UserService struct {
	users    UserStore
	plans    PlanStore
	sessions SessionStore
	tokens   *pkg.TokenManager
	mailer   CodeMailer
}

func NewUserService(users UserStore, plans PlanStore, sessions SessionStore, tokens *pkg.TokenManager, mailer CodeMailer) *UserService {
	return &UserService{
		users:    users,
		plans:    plans,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
	}
}

// Register creates the user and attaches the free plan's subscription in the
// same transaction. A missing free plan is a deployment misconfiguration:
// registration still succeeds, loudly.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "password hash failed", err)
	}

	plan, err := s.plans.FindFree(ctx)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "plan lookup failed", err)
	}
	var sub *model.Subscription
	if plan == nil {
		log.Printf("CRITICAL: no free plan configured; registering %s without a subscription", email)
	} else {
		sub = &model.Subscription{PlanID: plan.ID, Status: model.SubscriptionActive}
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Level:    1,
	}
	err = s.users.Create(ctx, user, sub)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, pkg.E(pkg.KindConflict, "email or username already taken")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "user create failed", err)
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, login, password string) (*pkg.Pair, error) {
	user, err := s.users.FindByLogin(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindUnauthenticated, "invalid credentials")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "user lookup failed", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.E(pkg.KindUnauthenticated, "invalid credentials")
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "token generation failed", err)
	}
	if err := s.sessions.AddUserToken(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "session store failed", err)
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if err := s.sessions.DeleteUserToken(ctx, userID); err != nil {
		return pkg.Wrap(pkg.KindInternal, "logout failed", err)
	}
	return nil
}

// Refresh rotates the pair and replaces the stored access token, so the
// single-login check keeps holding after a refresh.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	pair, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindUnauthenticated, "refresh rejected", err)
	}
	claims, err := s.tokens.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "token parse failed", err)
	}
	if err := s.sessions.AddUserToken(ctx, claims.UserID, pair.AccessToken); err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "session store failed", err)
	}
	return pair, nil
}

func (s *UserService) SendResetCode(ctx context.Context, email string) error {
	// Do not leak whether the address exists; only send when it does.
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkg.Wrap(pkg.KindInternal, "user lookup failed", err)
	}
	return s.mailer.SendResetCode(ctx, email)
}

func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ok, err := s.mailer.VerifyResetCode(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.E(pkg.KindValidation, "verification failed")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.E(pkg.KindNotFound, "user not found")
	}
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "user lookup failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "password hash failed", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return pkg.Wrap(pkg.KindInternal, "password update failed", err)
	}
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "user lookup failed", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.E(pkg.KindValidation, "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "password hash failed", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return pkg.Wrap(pkg.KindInternal, "password update failed", err)
	}
	// Changing the password invalidates the active session.
	return s.Logout(ctx, userID)
}

func (s *UserService) Subscription(ctx context.Context, userID uint64) (*model.Subscription, error) {
	sub, err := s.plans.FindSubscriptionByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindNotFound, "no subscription")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "subscription lookup failed", err)
	}
	return sub, nil
}
