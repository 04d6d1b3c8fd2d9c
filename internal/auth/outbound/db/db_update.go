package db

import (
	"context"

	"github.com/auriga-labs/authgate/internal/pkg/goerror"
)

// MarkAccountVerified enables the account and marks its email address as
// verified in one statement.
func (s *DB) MarkAccountVerified(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkAccountVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE accounts SET enabled = TRUE, email_verified = TRUE, updated_at = NOW() WHERE id = $1`,
		id)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}

func (s *DB) UpdateAccountPassword(ctx context.Context, id int64, hashed string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountPassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, hashed)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}
