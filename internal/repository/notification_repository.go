package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type Notification struct {
	ID          int64
	UserID      string
	Type        types.NotificationType
	Destination string
	Viewed      bool
	Message     string
	Redirect    string
	CreatedAt   time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	FindByID(ctx context.Context, id int64) (*Notification, error)
	FindByUserID(ctx context.Context, userID string) ([]*Notification, error)
	MarkViewed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteViewedOlderThan(ctx context.Context, olderThan time.Time) (int, error)
}

type pgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &pgNotificationRepository{pool: pool}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, destination, viewed, message, redirect)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		n.UserID, n.Type, n.Destination, n.Viewed, n.Message, n.Redirect,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *pgNotificationRepository) FindByID(ctx context.Context, id int64) (*Notification, error) {
	query := `
		SELECT id, user_id, type, destination, viewed, message, redirect, created_at
		FROM notifications WHERE id = $1
	`
	n := &Notification{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.UserID, &n.Type, &n.Destination, &n.Viewed, &n.Message, &n.Redirect, &n.CreatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *pgNotificationRepository) FindByUserID(ctx context.Context, userID string) ([]*Notification, error) {
	query := `
		SELECT id, user_id, type, destination, viewed, message, redirect, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 100
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n := &Notification{}
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Destination, &n.Viewed, &n.Message, &n.Redirect, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *pgNotificationRepository) MarkViewed(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET viewed = TRUE WHERE id = $1`, id)
	return err
}

func (r *pgNotificationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

func (r *pgNotificationRepository) DeleteViewedOlderThan(ctx context.Context, olderThan time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE viewed = TRUE AND created_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
