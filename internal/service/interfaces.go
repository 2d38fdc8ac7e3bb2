package service

import (
	"context"

	"aceplace/internal/model"
)

// UserStore persists user records. Implemented by repository.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// NotificationStore persists notification records. Implemented by
// repository.NotificationRepository.
type NotificationStore interface {
	Insert(ctx context.Context, n *model.Notification) error
	CountAll(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
	FindAll(ctx context.Context) ([]model.Notification, error)
	FindPage(ctx context.Context, skip, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// Mailer sends a templated message to an email address. Implemented by
// mailer.Mailer.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventPublisher publishes domain events. Implemented by mq.Producer.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// CountsCache caches the total/unread counters. Implemented by
// util.StatsCache. A nil cache disables caching.
type CountsCache interface {
	Get(ctx context.Context) (total, unread int, ok bool)
	Set(ctx context.Context, total, unread int)
	Invalidate(ctx context.Context)
}
