package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"aceplace/internal/model"
	"aceplace/internal/repository"
)

// ListResult carries the counts plus one page (or all) of notifications.
type ListResult struct {
	Total  int
	Unread int
	Items  []model.Notification
}

type NotificationService struct {
	notifs NotificationStore
	cache  CountsCache
	logger *zap.Logger
}

func NewNotificationService(notifs NotificationStore, cache CountsCache, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifs: notifs,
		cache:  cache,
		logger: logger,
	}
}

// List returns the total and unread counts plus the notification items.
// Paging applies only when both skip and limit are given; with either one
// missing the full collection is returned. Counts come from the Redis
// cache when it is warm.
func (s *NotificationService) List(ctx context.Context, skip, limit *int) (*ListResult, error) {
	total, unread, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}

	var items []model.Notification
	if skip != nil && limit != nil {
		items, err = s.notifs.FindPage(ctx, *skip, *limit)
	} else {
		items, err = s.notifs.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Total:  total,
		Unread: unread,
		Items:  items,
	}, nil
}

// MarkRead flips is_new to false. Idempotent: marking an already-read
// notification succeeds again.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notifs.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func (s *NotificationService) counts(ctx context.Context) (int, int, error) {
	if s.cache != nil {
		if total, unread, ok := s.cache.Get(ctx); ok {
			return total, unread, nil
		}
	}

	total, err := s.notifs.CountAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	unread, err := s.notifs.CountUnread(ctx)
	if err != nil {
		return 0, 0, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, total, unread)
	}
	return total, unread, nil
}
