package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

type RegisterInput struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
}

// Register creates an unverified account and sends a registration code.
//
// Registering an email that already has an unverified account restarts the
// flow: the stored account is untouched and a fresh code supersedes the old
// one.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err == nil {
		if acc.EmailVerified {
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}

		// Unverified restart: re-issue only, ignore the submitted credentials.
		return s.issueOtp(ctx, acc.Email, acc.Username, entity.OtpPurposeRegistration)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.repoDB.GetAccountByUsername(ctx, in.Username); err == nil {
		return goerror.NewBusiness("Username already taken", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by username", "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	newAccount := entity.NewAccount{
		ID:       s.uid.Generate(),
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
	}

	if err := s.repoDB.CreateAccount(ctx, newAccount); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create account", "error", err)
		return goerror.NewServer(err)
	}

	return s.issueOtp(ctx, newAccount.Email, newAccount.Username, entity.OtpPurposeRegistration)
}
