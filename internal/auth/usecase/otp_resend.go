package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

type OtpResendInput struct {
	Email string `validate:"required,email"`
	Type  string `validate:"required,oneof=LOGIN REGISTRATION"`
}

// OtpResend issues a fresh code for an in-flight registration or login flow,
// superseding the previous one. Password-reset codes are re-issued through
// the forgot-password operation instead.
func (s *Usecase) OtpResend(ctx context.Context, in OtpResendInput) error {
	ctx, span := s.startSpan(ctx, "OtpResend")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Type = strings.TrimSpace(strings.ToUpper(in.Type))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	purpose := entity.OtpPurposeFromString(in.Type)

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)
		}
		slog.ErrorContext(ctx, "failed to repo get account by email", "error", err)
		return goerror.NewServer(err)
	}

	switch purpose {
	case entity.OtpPurposeRegistration:
		if acc.EmailVerified {
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
	case entity.OtpPurposeLogin:
		if err := acc.CanLogin(); err != nil {
			if errors.Is(err, entity.ErrAccountDisabled) {
				return goerror.NewBusiness("Account is disabled", goerror.CodeForbidden)
			}
			return goerror.NewBusiness("Email not verified. Please verify your email first.", goerror.CodeForbidden)
		}
	}

	return s.issueOtp(ctx, acc.Email, acc.Username, purpose)
}
