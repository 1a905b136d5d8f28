package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriptionsSchema = `
CREATE TABLE IF NOT EXISTS digest_subscriptions (
	chat_id          BIGINT PRIMARY KEY,
	interval_minutes INTEGER NOT NULL,
	enabled          BOOLEAN NOT NULL DEFAULT TRUE,
	last_sent_at     TIMESTAMPTZ
)`

// SubscriptionRepo - подписки чатов на сводку лидеров
type SubscriptionRepo struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepo(db *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

func (r *SubscriptionRepo) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, subscriptionsSchema)
	return err
}

// MarkEnabled включает/обновляет подписку с указанным интервалом (в минутах).
// last_sent_at сбрасывается, первая сводка уходит на ближайшем тике.
func (r *SubscriptionRepo) MarkEnabled(ctx context.Context, chatID int64, intervalMinutes int) error {
	const query = `
	INSERT INTO digest_subscriptions (chat_id, interval_minutes, enabled, last_sent_at)
	VALUES ($1, $2, TRUE, NULL)
	ON CONFLICT (chat_id)
	DO UPDATE SET interval_minutes = EXCLUDED.interval_minutes,
	              enabled = TRUE,
	              last_sent_at = NULL`
	_, err := r.db.Exec(ctx, query, chatID, intervalMinutes)
	return err
}

func (r *SubscriptionRepo) MarkDisabled(ctx context.Context, chatID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE digest_subscriptions SET enabled = FALSE WHERE chat_id = $1`, chatID)
	return err
}

// FindDue возвращает chat_id, для которых наступило время отправки на момент now.
func (r *SubscriptionRepo) FindDue(ctx context.Context, now time.Time) ([]int64, error) {
	const query = `
	SELECT chat_id
	FROM digest_subscriptions
	WHERE enabled = TRUE
	  AND (
		last_sent_at IS NULL
		OR EXTRACT(EPOCH FROM ($1::timestamptz - last_sent_at)) / 60 >= interval_minutes
	)
	ORDER BY chat_id`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (r *SubscriptionRepo) MarkSent(ctx context.Context, chatID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE digest_subscriptions SET last_sent_at = $2 WHERE chat_id = $1`, chatID, at)
	return err
}
