package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Email       string `validate:"required,email"`
	Otp         string `validate:"required,otpcode"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset consumes a password-reset code and replaces the stored
// credential. The code is only consumed when every other check passed, so a
// failed reset can be retried with the same code.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("Invalid or expired OTP", goerror.CodeUnauthorized)
		}
		slog.ErrorContext(ctx, "failed to repo get account by email", "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(in.Otp)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return goerror.NewServer(err)
	}

	verdict, err := s.repoLedger.Verify(ctx, in.Email, entity.OtpPurposePasswordReset, string(codeHash), s.otpMaxAttempts())
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify otp in ledger", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.checkVerdict(ctx, verdict); err != nil {
		return err
	}

	if err := s.repoDB.UpdateAccountPassword(ctx, acc.ID, string(hashedPassword)); err != nil {
		slog.ErrorContext(ctx, "failed to repo update account password", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
