package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const subscriptionsSchema = `
CREATE TABLE IF NOT EXISTS digest_subscriptions (
	chat_id INTEGER PRIMARY KEY,
	interval_minutes INTEGER NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	last_sent_at INTEGER
);`

// SubscriptionStore - подписки на сводку в той же базе, что и избранное.
// last_sent_at хранится в unix-секундах.
type SubscriptionStore struct {
	db *sql.DB
}

// Subscriptions - хранилище подписок поверх открытой базы
func (s *FavoritesStore) Subscriptions() *SubscriptionStore {
	return &SubscriptionStore{db: s.db}
}

func (s *SubscriptionStore) MarkEnabled(ctx context.Context, chatID int64, intervalMinutes int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO digest_subscriptions (chat_id, interval_minutes, enabled, last_sent_at)
		VALUES (?, ?, 1, NULL)
		ON CONFLICT (chat_id) DO UPDATE SET
			interval_minutes = excluded.interval_minutes,
			enabled = 1,
			last_sent_at = NULL`, chatID, intervalMinutes)
	if err != nil {
		return fmt.Errorf("enable subscription: %w", err)
	}
	return nil
}

func (s *SubscriptionStore) MarkDisabled(ctx context.Context, chatID int64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE digest_subscriptions SET enabled = 0 WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("disable subscription: %w", err)
	}
	return nil
}

func (s *SubscriptionStore) FindDue(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chat_id FROM digest_subscriptions
		WHERE enabled = 1
		  AND (last_sent_at IS NULL OR ? - last_sent_at >= interval_minutes * 60)
		ORDER BY chat_id`, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("find due subscriptions: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SubscriptionStore) MarkSent(ctx context.Context, chatID int64, at time.Time) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE digest_subscriptions SET last_sent_at = ? WHERE chat_id = ?`, at.Unix(), chatID); err != nil {
		return fmt.Errorf("mark subscription sent: %w", err)
	}
	return nil
}
