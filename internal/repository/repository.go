// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// ErrDuplicate reports a unique-constraint violation on insert.
var ErrDuplicate = errors.New("duplicate key")

const uniqueViolation = "23505"

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapWriteErr converts driver errors the services need to branch on.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsertMember(ctx context.Context, db execer, committeeID, userID string, role types.MemberRole) error {
	_, err := db.Exec(ctx, `
		INSERT INTO members (committee_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (committee_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`, committeeID, userID, role)
	return err
}
