package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

type RegisterVerifyInput struct {
	Email string `validate:"required,email"`
	Otp   string `validate:"required,otpcode"`
}

// RegisterVerify consumes a registration code and activates the account,
// enabling it and marking the email verified in one update.
func (s *Usecase) RegisterVerify(ctx context.Context, in RegisterVerifyInput) error {
	ctx, span := s.startSpan(ctx, "RegisterVerify")
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

	if acc.EmailVerified {
		return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}

	codeHash, err := s.hmac.Hash(in.Otp)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return goerror.NewServer(err)
	}

	verdict, err := s.repoLedger.Verify(ctx, in.Email, entity.OtpPurposeRegistration, string(codeHash), s.otpMaxAttempts())
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify otp in ledger", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.checkVerdict(ctx, verdict); err != nil {
		return err
	}

	if err := s.repoDB.MarkAccountVerified(ctx, acc.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark account verified", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
