package service

import (
	"context"

	"campfire/internal/pkg"
	"campfire/internal/repository/redis"
)

// EmailService sends password-reset codes and acts as the dispatcher's
// EmailSender. Codes go through a pending/confirmed two-phase store so a
// code only becomes verifiable after its email actually went out.
type EmailService struct {
	cfg   pkg.SMTPConfig
	codes CodeStore
}

func NewEmailService(cfg pkg.SMTPConfig, codes CodeStore) *EmailService {
	return &EmailService{cfg: cfg, codes: codes}
}

func (s *EmailService) Send(to, subject, htmlBody string) error {
	return pkg.SendEmail(s.cfg, to, subject, htmlBody)
}

func (s *EmailService) SendResetCode(ctx context.Context, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "code generation failed", err)
	}
	if err := s.codes.SetPending(ctx, email, code); err != nil {
		return pkg.Wrap(pkg.KindInternal, "code store failed", err)
	}

	html := pkg.EmailCodeHTML("password reset", code, redis.DefaultResetCodeTTL)
	if err := s.Send(email, "Password reset code", html); err != nil {
		return pkg.Wrap(pkg.KindInternal, "code email failed", err)
	}

	if err := s.codes.Confirm(ctx, email); err != nil {
		_ = s.codes.DeletePending(ctx, email)
		return pkg.Wrap(pkg.KindInternal, "code confirm failed", err)
	}
	return nil
}

// VerifyResetCode checks and consumes a confirmed code; codes are single
// use.
func (s *EmailService) VerifyResetCode(ctx context.Context, email, code string) (bool, error) {
	val, err := s.codes.GetConfirmed(ctx, email)
	if err != nil {
		return false, nil
	}
	if val != code {
		return false, nil
	}
	if err := s.codes.DeleteConfirmed(ctx, email); err != nil {
		return false, pkg.Wrap(pkg.KindInternal, "code delete failed", err)
	}
	return true, nil
}
