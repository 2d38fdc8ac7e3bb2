package model

import (
	"encoding/json"
	"time"
)

// Key classifies a notification request and selects its delivery channels.
type Key string

const (
	KeyRegistration Key = "registration"
	KeyNewMessage   Key = "new_message"
	KeyNewLogin     Key = "new_login"
)

// Valid reports whether k is one of the recognized notification keys.
func (k Key) Valid() bool {
	switch k {
	case KeyRegistration, KeyNewMessage, KeyNewLogin:
		return true
	}
	return false
}

type Notification struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Key       Key             `json:"key"`
	Data      json.RawMessage `json:"data"`
	IsNew     bool            `json:"is_new"`
	CreatedAt time.Time       `json:"created_at"`
}
