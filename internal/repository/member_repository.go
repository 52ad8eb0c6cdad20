package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type Member struct {
	CommitteeID string
	UserID      string
	Role        types.MemberRole
	User        *User
}

type MemberRepository interface {
	Find(ctx context.Context, committeeID, userID string) (*Member, error)
	FindByCommittee(ctx context.Context, committeeID string) ([]*Member, error)
	// Add inserts the membership, or updates the role when it already exists.
	Add(ctx context.Context, member *Member) error
	UpdateRole(ctx context.Context, committeeID, userID string, role types.MemberRole) error
	Remove(ctx context.Context, committeeID, userID string) error
}

type pgMemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &pgMemberRepository{pool: pool}
}

func (r *pgMemberRepository) Find(ctx context.Context, committeeID, userID string) (*Member, error) {
	query := `SELECT committee_id, user_id, role FROM members WHERE committee_id = $1 AND user_id = $2`
	m := &Member{}
	err := r.pool.QueryRow(ctx, query, committeeID, userID).Scan(&m.CommitteeID, &m.UserID, &m.Role)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMemberRepository) FindByCommittee(ctx context.Context, committeeID string) ([]*Member, error) {
	query := `
		SELECT m.committee_id, m.user_id, m.role,
			u.id, u.first_name, u.last_name, u.email, u.is_admin, u.created_at
		FROM members m
		JOIN users u ON u.id = m.user_id
		WHERE m.committee_id = $1
		ORDER BY u.last_name, u.first_name
	`
	rows, err := r.pool.Query(ctx, query, committeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{User: &User{}}
		if err := rows.Scan(
			&m.CommitteeID, &m.UserID, &m.Role,
			&m.User.ID, &m.User.FirstName, &m.User.LastName, &m.User.Email,
			&m.User.IsAdmin, &m.User.CreatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgMemberRepository) Add(ctx context.Context, member *Member) error {
	return upsertMember(ctx, r.pool, member.CommitteeID, member.UserID, member.Role)
}

func (r *pgMemberRepository) UpdateRole(ctx context.Context, committeeID, userID string, role types.MemberRole) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE members SET role = $3 WHERE committee_id = $1 AND user_id = $2`,
		committeeID, userID, role,
	)
	return err
}

func (r *pgMemberRepository) Remove(ctx context.Context, committeeID, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM members WHERE committee_id = $1 AND user_id = $2`, committeeID, userID)
	return err
}
