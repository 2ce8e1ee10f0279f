package services

import (
	"context"
	"fmt"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"gorm.io/gorm"
)

// PushFunc delivers an event to a user's personal socket room.
// Wired to the socket layer at boot so the dispatcher does not depend on it.
type PushFunc func(userID string, event string, data map[string]interface{}) error

// Dispatcher drains the queued_notifications table: due rows become
// Notification records and are pushed to the recipient's socket room.
// Failures are retried up to MaxRetries, expired rows are marked dead.
type Dispatcher struct {
	DB       *gorm.DB
	Push     PushFunc
	Interval time.Duration
	Batch    int
}

func NewDispatcher(db *gorm.DB, push PushFunc) *Dispatcher {
	return &Dispatcher{
		DB:       db,
		Push:     push,
		Interval: 5 * time.Second,
		Batch:    100,
	}
}

// Run polls until the context is cancelled
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", d.Interval).Msg("Notification dispatcher started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Notification dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.ProcessDue(); err != nil {
				logger.Error().Err(err).Msg("Dispatch cycle failed")
			}
		}
	}
}

// ProcessDue handles one dispatch cycle. Exported so the worker loop and
// tests share the same path.
func (d *Dispatcher) ProcessDue() error {
	now := time.Now()

	var queued []models.QueuedNotification
	err := d.DB.Where("sent = ? AND dead = ? AND scheduled_for <= ?", false, false, now).
		Order("scheduled_for asc").
		Limit(d.Batch).
		Find(&queued).Error
	if err != nil {
		return err
	}

	for i := range queued {
		q := &queued[i]

		if q.ExpiresAt != nil && q.ExpiresAt.Before(now) {
			d.DB.Model(q).Updates(map[string]interface{}{
				"dead":       true,
				"last_error": "expired before dispatch",
			})
			continue
		}

		if err := d.dispatch(q); err != nil {
			q.RetryCount++
			updates := map[string]interface{}{
				"retry_count": q.RetryCount,
				"last_error":  err.Error(),
			}
			if q.RetryCount >= q.MaxRetries {
				updates["dead"] = true
				logger.Error().
					Str("queued_id", q.ID).
					Str("user_id", q.UserID).
					Int("retries", q.RetryCount).
					Msg("Queued notification dead-lettered")
			}
			d.DB.Model(q).Updates(updates)
			continue
		}

		d.DB.Model(q).Update("sent", true)
	}

	return nil
}

// dispatch persists the notification and pushes it to the recipient
func (d *Dispatcher) dispatch(q *models.QueuedNotification) error {
	notification := models.Notification{
		UserID:          q.UserID,
		ActorID:         q.ActorID,
		Type:            q.Type,
		Priority:        q.Priority,
		ResourceID:      q.ResourceID,
		BorrowRequestID: q.BorrowRequestID,
		Message:         q.Message,
	}

	if err := d.DB.Create(&notification).Error; err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	if d.Push != nil {
		event := "new_notification"
		if q.Type == models.NotificationTypeSystem {
			event = "system_announcement"
		}
		if err := d.Push(q.UserID, event, map[string]interface{}{
			"id":        notification.ID,
			"type":      notification.Type,
			"priority":  notification.Priority,
			"message":   notification.Message,
			"createdAt": notification.CreatedAt,
			"isRead":    false,
		}); err != nil {
			// Row is persisted, only the live push failed. The client will
			// pick it up on the next notifications fetch.
			logger.Warn().Err(err).Str("user_id", q.UserID).Msg("Socket push failed")
		}

		var unread int64
		d.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", q.UserID, false).Count(&unread)
		d.Push(q.UserID, "unread_count_updated", map[string]interface{}{"count": unread})
	}

	return nil
}

// Enqueue stores a notification for later dispatch
func Enqueue(db *gorm.DB, q models.QueuedNotification) error {
	return db.Create(&q).Error
}
