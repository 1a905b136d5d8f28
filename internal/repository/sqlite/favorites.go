package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/repository"
)

// FavoritesStore - избранное во встроенной SQLite
type FavoritesStore struct {
	db     *sql.DB
	notify *repository.Notifier
	log    *slog.Logger
}

// Open - открывает (создаёт) файл базы и таблицу избранного
func Open(path string, log *slog.Logger) (*FavoritesStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// один писатель
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			symbol TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			current_price REAL NOT NULL DEFAULT 0,
			price_change_percentage_24h REAL NOT NULL DEFAULT 0,
			last_updated TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create favorites table: %w", err)
	}
	if _, err := db.Exec(subscriptionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create subscriptions table: %w", err)
	}

	return &FavoritesStore{db: db, notify: repository.NewNotifier(), log: log}, nil
}

// Insert - повторная вставка игнорируется
func (s *FavoritesStore) Insert(ctx context.Context, a domain.Asset) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (id, name, symbol, image, current_price, price_change_percentage_24h, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Symbol, a.Image, a.CurrentPrice, a.PriceChangePercentage24h, a.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	s.notifyIfChanged(res)
	return nil
}

func (s *FavoritesStore) Delete(ctx context.Context, a domain.Asset) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, a.ID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	s.notifyIfChanged(res)
	return nil
}

// ListAll - все записи по имени
func (s *FavoritesStore) ListAll(ctx context.Context) ([]domain.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, symbol, image, current_price, price_change_percentage_24h, last_updated
		 FROM favorites ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Asset, 0)
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Symbol, &a.Image,
			&a.CurrentPrice, &a.PriceChangePercentage24h, &a.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *FavoritesStore) ObserveAll(ctx context.Context) (<-chan []domain.Asset, error) {
	return repository.Observe(ctx, s.notify, s.ListAll, s.log)
}

func (s *FavoritesStore) Close() error {
	return s.db.Close()
}

func (s *FavoritesStore) notifyIfChanged(res sql.Result) {
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.notify.Notify()
	}
}
