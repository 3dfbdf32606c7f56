package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"crackcode-tournament/models"

	"gorm.io/gorm"
)

const maxDeliveryAttempts = 5

// webhookPayload is the JSON body posted to the notification webhook.
type webhookPayload struct {
	PlayerID int64     `json:"player_id"`
	Message  string    `json:"message"`
	QueuedAt time.Time `json:"queued_at"`
}

// NotificationWorker drains the notification outbox to a webhook. Delivery
// is best-effort: rows that keep failing are abandoned after a few attempts
// so one unreachable player never clogs the queue.
type NotificationWorker struct {
	db         *gorm.DB
	interval   time.Duration
	webhookURL string
	httpClient *http.Client
}

func NewNotificationWorker(db *gorm.DB, webhookURL string) *NotificationWorker {
	return &NotificationWorker{
		db:         db,
		interval:   5 * time.Second,
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Notification Worker (outbox → webhook)…")
	go w.run(ctx)
}

func (w *NotificationWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.drainBatch(ctx); err != nil {
				log.Printf("❌ [NOTIFY] Drain batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Notification Worker stopped")
			return
		}
	}
}

// drainBatch pushes up to 100 pending notifications, oldest first.
func (w *NotificationWorker) drainBatch(ctx context.Context) error {
	var pending []models.Notification
	err := w.db.Where("sent = ? AND attempts < ?", false, maxDeliveryAttempts).
		Order("id ASC").Limit(100).Find(&pending).Error
	if err != nil {
		return fmt.Errorf("failed to fetch pending notifications: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	var delivered, failed int
	for _, n := range pending {
		if err := w.deliver(ctx, n); err != nil {
			failed++
			w.db.Model(&n).Update("attempts", gorm.Expr("attempts + 1"))
			log.Printf("⚠️ [NOTIFY] Delivery to player %d failed (attempt %d): %v", n.PlayerID, n.Attempts+1, err)
			continue
		}
		delivered++
		now := time.Now()
		w.db.Model(&n).Updates(map[string]interface{}{
			"sent":    true,
			"sent_at": now,
		})
	}

	if delivered > 0 || failed > 0 {
		log.Printf("✅ [NOTIFY] Batch done: %d delivered, %d failed", delivered, failed)
	}
	return nil
}

func (w *NotificationWorker) deliver(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(webhookPayload{
		PlayerID: n.PlayerID,
		Message:  n.Message,
		QueuedAt: n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
