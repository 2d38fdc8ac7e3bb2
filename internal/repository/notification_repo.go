package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"aceplace/internal/model"
)

type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Insert stores a notification record.
func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	r.logger.Debug("Inserting notification",
		zap.String("user_id", n.UserID),
		zap.String("key", string(n.Key)),
	)

	query := `
        INSERT INTO notifications (id, user_id, key, data, is_new, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.Key, n.Data, n.IsNew, n.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert notification", zap.Error(err))
		return err
	}

	r.logger.Info("Notification inserted",
		zap.String("id", n.ID),
		zap.String("user_id", n.UserID),
	)
	return nil
}

// CountAll returns the number of stored notifications.
func (r *NotificationRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&count)
	return count, err
}

// CountUnread returns the number of notifications still flagged is_new.
func (r *NotificationRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE is_new = TRUE`).Scan(&count)
	return count, err
}

// FindAll returns every stored notification in creation order.
func (r *NotificationRepository) FindAll(ctx context.Context) ([]model.Notification, error) {
	query := `
        SELECT id, user_id, key, data, is_new, created_at
        FROM notifications
        ORDER BY created_at, id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// FindPage returns one offset/limit page of the full collection in
// creation order.
func (r *NotificationRepository) FindPage(ctx context.Context, skip, limit int) ([]model.Notification, error) {
	query := `
        SELECT id, user_id, key, data, is_new, created_at
        FROM notifications
        ORDER BY created_at, id
        OFFSET $1 LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// MarkRead flips is_new to false. Marking an already-read notification is
// a no-op success; only a missing id yields ErrNotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_new = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNotifications(rows pgx.Rows) ([]model.Notification, error) {
	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Key, &n.Data, &n.IsNew, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
