package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

// dummyPasswordHash keeps the password comparison on the unknown-email path,
// so response timing does not reveal whether the address exists.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Login checks credentials and, when they hold, issues a login code and opens
// a pending-login window. No token is returned until the code is verified.
func (s *Usecase) Login(ctx context.Context, in LoginInput) error {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			s.password.Verify(dummyPasswordHash, in.Password)
			return goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)
		}
		slog.ErrorContext(ctx, "failed to repo get account by email", "error", err)
		return goerror.NewServer(err)
	}

	if !s.password.Verify(acc.Password, in.Password) {
		slog.WarnContext(ctx, "login password mismatch", "account_id", acc.ID)
		return goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)
	}

	if err := acc.CanLogin(); err != nil {
		if errors.Is(err, entity.ErrAccountDisabled) {
			slog.WarnContext(ctx, "login on disabled account", "account_id", acc.ID)
			return goerror.NewBusiness("Account is disabled", goerror.CodeForbidden)
		}
		slog.WarnContext(ctx, "login on unverified account", "account_id", acc.ID)
		return goerror.NewBusiness("Email not verified. Please verify your email first.", goerror.CodeForbidden)
	}

	if err := s.issueOtp(ctx, acc.Email, acc.Username, entity.OtpPurposeLogin); err != nil {
		return err
	}

	if err := s.repoLedger.CreatePendingLogin(ctx, acc.Email, s.otpTTL()); err != nil {
		slog.ErrorContext(ctx, "failed to create pending login", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
