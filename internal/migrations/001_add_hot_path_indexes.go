package migrations

import "gorm.io/gorm"

// Migration001AddHotPathIndexes adds composite indexes for the queries
// that run on every page load: conversation lists, incoming borrow
// requests, and unread notification counts.
func Migration001AddHotPathIndexes() Migration {
	return Migration{
		ID:   "001_add_hot_path_indexes",
		Name: "Add composite indexes for chat, borrow, and notification hot paths",
		Up: func(db *gorm.DB) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_messages_sender_recipient_created
					ON messages (sender_id, recipient_id, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_messages_recipient_unread
					ON messages (recipient_id, is_read)`,
				`CREATE INDEX IF NOT EXISTS idx_borrow_requests_resource_status
					ON borrow_requests (resource_id, status)`,
				`CREATE INDEX IF NOT EXISTS idx_borrow_requests_owner_status
					ON borrow_requests (owner_id, status)`,
				`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
					ON notifications (user_id, is_read, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_queued_notifications_due
					ON queued_notifications (sent, dead, scheduled_for)`,
			}
			for _, stmt := range stmts {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			stmts := []string{
				`DROP INDEX IF EXISTS idx_messages_sender_recipient_created`,
				`DROP INDEX IF EXISTS idx_messages_recipient_unread`,
				`DROP INDEX IF EXISTS idx_borrow_requests_resource_status`,
				`DROP INDEX IF EXISTS idx_borrow_requests_owner_status`,
				`DROP INDEX IF EXISTS idx_notifications_user_unread`,
				`DROP INDEX IF EXISTS idx_queued_notifications_due`,
			}
			for _, stmt := range stmts {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
