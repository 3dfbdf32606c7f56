package models

import "time"

// Notification is an outbox row. The notification worker drains unsent rows
// to the configured webhook; delivery is best-effort with bounded retries.
type Notification struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PlayerID int64  `json:"player_id" gorm:"index;not null"`
	Message  string `json:"message" gorm:"type:text;not null"`

	Sent     bool       `json:"sent" gorm:"default:false;index"`
	Attempts int        `json:"attempts" gorm:"default:0"`
	SentAt   *time.Time `json:"sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
