package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

// PasswordForgot issues a password-reset code when the account exists and is
// eligible. The response is identical either way, so it cannot be used to
// probe which addresses are registered.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "password forgot for unknown email")
			return nil
		}
		slog.ErrorContext(ctx, "failed to repo get account by email", "error", err)
		return goerror.NewServer(err)
	}

	if !acc.Enabled || !acc.EmailVerified {
		slog.WarnContext(ctx, "password forgot for ineligible account", "account_id", acc.ID)
		return nil
	}

	if err := s.issueOtp(ctx, acc.Email, acc.Username, entity.OtpPurposePasswordReset); err != nil {
		// Keep the response shape uniform for rate limiting too; the reset
		// code simply does not arrive.
		var gerr *goerror.Error
		if errors.As(err, &gerr) && gerr.Code() == goerror.CodeTooManyRequest {
			return nil
		}
		return err
	}

	return nil
}
