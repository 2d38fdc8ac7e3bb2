package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"aceplace/internal/model"
	"aceplace/internal/mq"
	"aceplace/internal/repository"
	"aceplace/internal/util"
	"aceplace/pkg/metrics"
)

// DispatchLogHandler appends an audit row for every dispatch event.
type DispatchLogHandler struct {
	repo    *repository.DispatchLogRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewDispatchLogHandler(repo *repository.DispatchLogRepository, deduper *util.Deduper, logger *zap.Logger) *DispatchLogHandler {
	return &DispatchLogHandler{
		repo:    repo,
		deduper: deduper,
		logger:  logger,
	}
}

// HandleDispatched consumes a notification.dispatched event. Redelivered
// duplicates are detected by event id and acked without a second row.
func (h *DispatchLogHandler) HandleDispatched(ctx context.Context, raw json.RawMessage) error {
	var p mq.NotificationDispatchedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal dispatched payload", zap.Error(err))
		metrics.RecordDispatchEventConsumed("failed")
		return err
	}

	if !h.deduper.AcquireOnce(ctx, "dispatch_log", p.EventID) {
		h.logger.Info("Duplicate dispatch event skipped",
			zap.String("event_id", p.EventID),
		)
		metrics.RecordDispatchEventConsumed("duplicate")
		return nil
	}

	l := &model.DispatchLog{
		EventID:        p.EventID,
		NotificationID: p.NotificationID,
		UserID:         p.UserID,
		Key:            model.Key(p.Key),
		Outcome:        p.Outcome,
		EmailError:     p.EmailError,
		StoreError:     p.StoreError,
		DispatchedAt:   p.DispatchedAt,
	}

	if err := h.repo.Insert(ctx, l); err != nil {
		metrics.RecordDispatchEventConsumed("failed")
		return err
	}

	metrics.RecordDispatchEventConsumed("logged")
	return nil
}
