package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

type LoginVerifyInput struct {
	Email string `validate:"required,email"`
	Otp   string `validate:"required,otpcode"`
}

type LoginVerifyOutput struct {
	Token    string
	Username string
	Email    string
}

// LoginVerify consumes a login code inside a live pending-login window and
// mints the session token.
func (s *Usecase) LoginVerify(ctx context.Context, in LoginVerifyInput) (*LoginVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginVerify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pending, err := s.repoLedger.HasPendingLogin(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check pending login", "error", err)
		return nil, goerror.NewServer(err)
	}
	if !pending {
		slog.WarnContext(ctx, "otp verify without pending login")
		return nil, goerror.NewBusiness("No pending login for this email. Please login again.", goerror.CodeUnauthorized)
	}

	codeHash, err := s.hmac.Hash(in.Otp)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	verdict, err := s.repoLedger.Verify(ctx, in.Email, entity.OtpPurposeLogin, string(codeHash), s.otpMaxAttempts())
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify otp in ledger", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.checkVerdict(ctx, verdict); err != nil {
		return nil, err
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("Invalid or expired OTP", goerror.CodeUnauthorized)
		}
		slog.ErrorContext(ctx, "failed to repo get account by email", "error", err)
		return nil, goerror.NewServer(err)
	}

	if _, err := s.repoLedger.TakePendingLogin(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to take pending login", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(acc.ID, acc.Username, acc.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginVerifyOutput{
		Token:    token,
		Username: acc.Username,
		Email:    acc.Email,
	}, nil
}
