package services

import (
	"log"

	"crackcode-tournament/models"

	"gorm.io/gorm"
)

// Notifier delivers player-facing messages. Delivery is best-effort: a
// failed notification must never fail the game-state transition that
// produced it.
type Notifier interface {
	Notify(playerID int64, message string)
}

// OutboxNotifier persists messages to the notifications table. The
// notification worker drains them to the configured webhook asynchronously.
type OutboxNotifier struct {
	DB *gorm.DB
}

func NewOutboxNotifier(db *gorm.DB) *OutboxNotifier {
	return &OutboxNotifier{DB: db}
}

func (n *OutboxNotifier) Notify(playerID int64, message string) {
	row := models.Notification{
		PlayerID: playerID,
		Message:  message,
	}
	if err := n.DB.Create(&row).Error; err != nil {
		log.Printf("⚠️ [NOTIFY] Failed to enqueue notification for player %d: %v", playerID, err)
	}
}
