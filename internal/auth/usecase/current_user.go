package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/auriga-labs/authgate/internal/pkg/goerror"
	"github.com/auriga-labs/authgate/internal/pkg/jwt"
)

type CurrentUserOutput struct {
	ID            int64
	Username      string
	Email         string
	Enabled       bool
	EmailVerified bool
}

// CurrentUser resolves the authenticated account from the token claims in the
// context and returns its stored state.
func (s *Usecase) CurrentUser(ctx context.Context) (*CurrentUserOutput, error) {
	ctx, span := s.startSpan(ctx, "CurrentUser")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	acc, err := s.repoDB.GetAccountByID(ctx, clm.UserID)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "token subject no longer exists", "account_id", clm.UserID)
			return nil, goerror.NewBusiness("Invalid or expired token", goerror.CodeUnauthorized)
		}
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CurrentUserOutput{
		ID:            acc.ID,
		Username:      acc.Username,
		Email:         acc.Email,
		Enabled:       acc.Enabled,
		EmailVerified: acc.EmailVerified,
	}, nil
}
