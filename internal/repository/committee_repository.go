package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type Committee struct {
	ID          string
	Title       string
	Description string
	Location    string
	MeetingTime string
	MeetingDay  int
	HeadID      string
	HeadName    string // read-only, joined from users
	Image       *string
	Enabled     bool
	CreatedAt   time.Time
}

type CommitteeRepository interface {
	// Create inserts the committee and the head's CommitteeHead membership atomically.
	Create(ctx context.Context, committee *Committee) error
	FindByID(ctx context.Context, id string) (*Committee, error)
	FindAll(ctx context.Context) ([]*Committee, error)
	// Update persists committee fields. When the head differs from previousHead the
	// old head is demoted to NormalMember and the new head upserted as CommitteeHead
	// in the same transaction.
	Update(ctx context.Context, committee *Committee, previousHead string) error
}

type pgCommitteeRepository struct {
	pool *pgxpool.Pool
}

func NewCommitteeRepository(pool *pgxpool.Pool) CommitteeRepository {
	return &pgCommitteeRepository{pool: pool}
}

const committeeSelect = `
	SELECT c.id, c.title, c.description, c.location, c.meeting_time, c.meeting_day,
		c.head, COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''),
		c.committee_img, c.enabled, c.created_at
	FROM committees c
	LEFT JOIN users u ON u.id = c.head
`

func (r *pgCommitteeRepository) Create(ctx context.Context, committee *Committee) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO committees (id, title, description, location, meeting_time, meeting_day, head, committee_img, enabled)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at
		`
		if err := tx.QueryRow(ctx, query,
			committee.ID, committee.Title, committee.Description, committee.Location,
			committee.MeetingTime, committee.MeetingDay, committee.HeadID, committee.Image, committee.Enabled,
		).Scan(&committee.CreatedAt); err != nil {
			return err
		}
		return upsertMember(ctx, tx, committee.ID, committee.HeadID, types.CommitteeHead)
	})
	return mapWriteErr(err)
}

func (r *pgCommitteeRepository) FindByID(ctx context.Context, id string) (*Committee, error) {
	c := &Committee{}
	err := scanCommittee(r.pool.QueryRow(ctx, committeeSelect+` WHERE c.id = $1`, id), c)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgCommitteeRepository) FindAll(ctx context.Context) ([]*Committee, error) {
	rows, err := r.pool.Query(ctx, committeeSelect+` ORDER BY c.title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var committees []*Committee
	for rows.Next() {
		c := &Committee{}
		if err := scanCommittee(rows, c); err != nil {
			return nil, err
		}
		committees = append(committees, c)
	}
	return committees, rows.Err()
}

func (r *pgCommitteeRepository) Update(ctx context.Context, committee *Committee, previousHead string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE committees
			SET title = $2, description = $3, location = $4, meeting_time = $5,
				meeting_day = $6, head = $7, committee_img = $8, enabled = $9
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, query,
			committee.ID, committee.Title, committee.Description, committee.Location,
			committee.MeetingTime, committee.MeetingDay, committee.HeadID, committee.Image, committee.Enabled,
		); err != nil {
			return err
		}
		if previousHead == committee.HeadID {
			return nil
		}
		if previousHead != "" {
			if _, err := tx.Exec(ctx,
				`UPDATE members SET role = $3 WHERE committee_id = $1 AND user_id = $2`,
				committee.ID, previousHead, types.NormalMember,
			); err != nil {
				return err
			}
		}
		return upsertMember(ctx, tx, committee.ID, committee.HeadID, types.CommitteeHead)
	})
}

func scanCommittee(row pgx.Row, c *Committee) error {
	return row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Location, &c.MeetingTime, &c.MeetingDay,
		&c.HeadID, &c.HeadName, &c.Image, &c.Enabled, &c.CreatedAt,
	)
}
