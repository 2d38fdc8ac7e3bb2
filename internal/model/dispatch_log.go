package model

import "time"

// DispatchLog is the audit record the worker writes for every
// notification.dispatched event it consumes.
type DispatchLog struct {
	ID             int64
	EventID        string
	NotificationID string
	UserID         string
	Key            Key
	Outcome        string
	EmailError     string
	StoreError     string
	DispatchedAt   time.Time
	CreatedAt      time.Time
}
