package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// Invitation is either an invite sent by a committee manager (IsInvite) or a
// join request raised by the user themselves.
type Invitation struct {
	ID          int64
	UserName    string
	CommitteeID string
	IsInvite    bool
	CreatedAt   time.Time
}

type InvitationRepository interface {
	// Create returns ErrDuplicate when the user already has a pending invitation
	// or request for the committee.
	Create(ctx context.Context, invitation *Invitation) error
	FindByID(ctx context.Context, id int64) (*Invitation, error)
	// Accept adds the membership and deletes the invitation atomically.
	Accept(ctx context.Context, invitation *Invitation, role types.MemberRole) error
	Delete(ctx context.Context, id int64) error
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int, error)
}

type pgInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgInvitationRepository{pool: pool}
}

const invitationSelect = `SELECT id, user_name, committee, is_invite, created_at FROM invitations`

func (r *pgInvitationRepository) Create(ctx context.Context, invitation *Invitation) error {
	query := `
		INSERT INTO invitations (user_name, committee, is_invite)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, invitation.UserName, invitation.CommitteeID, invitation.IsInvite).
		Scan(&invitation.ID, &invitation.CreatedAt)
	return mapWriteErr(err)
}

func (r *pgInvitationRepository) FindByID(ctx context.Context, id int64) (*Invitation, error) {
	return r.findOne(ctx, invitationSelect+` WHERE id = $1`, id)
}

func (r *pgInvitationRepository) Accept(ctx context.Context, invitation *Invitation, role types.MemberRole) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO members (committee_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (committee_id, user_id) DO NOTHING
		`, invitation.CommitteeID, invitation.UserName, role); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, invitation.ID)
		return err
	})
}

func (r *pgInvitationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	return err
}

func (r *pgInvitationRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invitations WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgInvitationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*Invitation, error) {
	inv := &Invitation{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&inv.ID, &inv.UserName, &inv.CommitteeID, &inv.IsInvite, &inv.CreatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}
