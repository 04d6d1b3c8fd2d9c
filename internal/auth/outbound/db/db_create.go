package db

import (
	"context"

	"github.com/auriga-labs/authgate/internal/auth/entity"
)

func (s *DB) CreateAccount(ctx context.Context, in entity.NewAccount) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, enabled, email_verified)
		 VALUES ($1, $2, $3, $4, FALSE, FALSE)`,
		in.ID, in.Username, in.Email, in.Password)

	err = s.mapError(err)
	return err
}
