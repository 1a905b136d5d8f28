package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS favorites (
	id                          TEXT PRIMARY KEY,
	name                        TEXT NOT NULL,
	symbol                      TEXT NOT NULL,
	image                       TEXT NOT NULL DEFAULT '',
	current_price               DOUBLE PRECISION NOT NULL DEFAULT 0,
	price_change_percentage_24h DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_updated                TEXT NOT NULL DEFAULT ''
)`

// FavoritesRepo - избранное в PostgreSQL
type FavoritesRepo struct {
	db     *pgxpool.Pool
	notify *repository.Notifier
	log    *slog.Logger
}

// NewFavoritesRepo - Создаёт репозиторий избранного на основе пула соединений.
func NewFavoritesRepo(db *pgxpool.Pool, log *slog.Logger) *FavoritesRepo {
	return &FavoritesRepo{db: db, notify: repository.NewNotifier(), log: log}
}

// Migrate - создаёт таблицу, если её нет
func (r *FavoritesRepo) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Insert - повторная вставка того же id игнорируется
func (r *FavoritesRepo) Insert(ctx context.Context, a domain.Asset) error {
	const query = `
		INSERT INTO favorites (id, name, symbol, image, current_price, price_change_percentage_24h, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, a.ID, a.Name, a.Symbol, a.Image,
		a.CurrentPrice, a.PriceChangePercentage24h, a.LastUpdated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		r.notify.Notify()
	}
	return nil
}

// Delete - удаляет запись по id
func (r *FavoritesRepo) Delete(ctx context.Context, a domain.Asset) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE id = $1`, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		r.notify.Notify()
	}
	return nil
}

// ListAll - все записи по имени
func (r *FavoritesRepo) ListAll(ctx context.Context) ([]domain.Asset, error) {
	const query = `
		SELECT id, name, symbol, image, current_price, price_change_percentage_24h, last_updated
		FROM favorites
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Asset, error) {
		var a domain.Asset
		err := row.Scan(&a.ID, &a.Name, &a.Symbol, &a.Image,
			&a.CurrentPrice, &a.PriceChangePercentage24h, &a.LastUpdated)
		return a, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ObserveAll - поток снимков избранного до отмены ctx
func (r *FavoritesRepo) ObserveAll(ctx context.Context) (<-chan []domain.Asset, error) {
	return repository.Observe(ctx, r.notify, r.ListAll, r.log)
}
