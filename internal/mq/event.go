package mq

import "time"

// RoutingKeyDispatched is the routing key for dispatch outcome events.
const RoutingKeyDispatched = "notification.dispatched"

// NotificationDispatchedPayload is published after every dispatch call,
// successful or not, and consumed by the audit worker.
type NotificationDispatchedPayload struct {
	EventID        string    `json:"event_id"`
	NotificationID string    `json:"notification_id,omitempty"`
	UserID         string    `json:"user_id"`
	Key            string    `json:"key"`
	Outcome        string    `json:"outcome"`
	EmailError     string    `json:"email_error,omitempty"`
	StoreError     string    `json:"store_error,omitempty"`
	DispatchedAt   time.Time `json:"dispatched_at"`
}
