package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"aceplace/internal/model"
)

type DispatchLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDispatchLogRepository(db *pgxpool.Pool, logger *zap.Logger) *DispatchLogRepository {
	return &DispatchLogRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends one audit row for a consumed dispatch event.
func (r *DispatchLogRepository) Insert(ctx context.Context, l *model.DispatchLog) error {
	query := `
        INSERT INTO dispatch_log
            (event_id, notification_id, user_id, key, outcome, email_error, store_error, dispatched_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		l.EventID, l.NotificationID, l.UserID, l.Key,
		l.Outcome, l.EmailError, l.StoreError, l.DispatchedAt,
	).Scan(&l.ID)
	if err != nil {
		r.logger.Error("Failed to insert dispatch log", zap.Error(err))
		return err
	}

	r.logger.Info("Dispatch log inserted",
		zap.Int64("id", l.ID),
		zap.String("event_id", l.EventID),
		zap.String("outcome", l.Outcome),
	)
	return nil
}
