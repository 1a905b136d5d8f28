package favorites

import (
	"context"
	"log/slog"
	"sync"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/observable"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
)

//go:generate mockgen -source=favorites_service.go -destination=mocks/mocks.go -package=mocks

// Избранное: хранилище id + живые цены от провайдера

type Service interface {
	// Save - повторное сохранение не ошибка
	Save(ctx context.Context, a domain.Asset) error
	Delete(ctx context.Context, a domain.Asset) error
	// Observe - следит за хранилищем до отмены ctx и на каждый снимок публикует живые записи
	Observe(ctx context.Context) error
	// Refresh - свежая запись одного актива по id
	Refresh(ctx context.Context, id string) (domain.Asset, error)
	// IsFavorite - по последнему снимку хранилища
	IsFavorite(id string) bool

	Favorites() []domain.Asset
	Loading() bool
	Subscribe(fn func([]domain.Asset)) (unsubscribe func())
}

type Store interface {
	Insert(ctx context.Context, a domain.Asset) error
	Delete(ctx context.Context, a domain.Asset) error
	ObserveAll(ctx context.Context) (<-chan []domain.Asset, error)
}

type Provider interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.Asset, error)
}

type service struct {
	store    Store
	provider Provider
	exec     *retry.Executor
	logger   *slog.Logger

	mu        sync.RWMutex
	stored    map[string]struct{}
	favorites *observable.Cell[[]domain.Asset]
	loading   *observable.Flag
}

func NewService(store Store, provider Provider, exec *retry.Executor, logger *slog.Logger) Service {
	return &service{
		store:     store,
		provider:  provider,
		exec:      exec,
		logger:    logger,
		stored:    make(map[string]struct{}),
		favorites: observable.NewCell([]domain.Asset{}),
		loading:   observable.NewFlag(),
	}
}

func (s *service) Save(ctx context.Context, a domain.Asset) error {
	if !a.HasID() {
		return domain.ErrMissingID
	}
	if err := s.store.Insert(ctx, a); err != nil {
		s.logger.Error("save favorite failed", slog.String("id", a.ID), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func (s *service) Delete(ctx context.Context, a domain.Asset) error {
	if !a.HasID() {
		return domain.ErrMissingID
	}
	if err := s.store.Delete(ctx, a); err != nil {
		s.logger.Error("delete favorite failed", slog.String("id", a.ID), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func (s *service) Observe(ctx context.Context) error {
	stream, err := s.store.ObserveAll(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case stored, ok := <-stream:
			if !ok {
				return nil
			}
			s.reconcile(ctx, stored)
		}
	}
}

// reconcile - один снимок хранилища -> одна публикация (или ничего при сбое)
func (s *service) reconcile(ctx context.Context, stored []domain.Asset) {
	ids := domain.IDs(stored)

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.mu.Lock()
	s.stored = set
	s.mu.Unlock()

	if len(ids) == 0 {
		s.favorites.Set([]domain.Asset{})
		return
	}

	release := s.loading.Hold()
	defer release()

	// следующий снимок всё равно придёт, повторять не нужно
	res := retry.Do(ctx, s.exec.WithPolicy(retry.Once), "favorites", func(ctx context.Context) ([]domain.Asset, error) {
		return s.provider.ListByIDs(ctx, ids)
	})
	if !res.OK() {
		s.logger.Warn("favorites not refreshed, keeping previous",
			slog.Int("stored", len(ids)),
			slog.String("err", errString(res.Err)))
		return
	}

	s.favorites.Set(inStoredOrder(ids, res.Value))
	s.logger.Debug("favorites refreshed", slog.Int("count", len(ids)))
}

func (s *service) Refresh(ctx context.Context, id string) (domain.Asset, error) {
	if id == "" {
		return domain.Asset{}, domain.ErrMissingID
	}

	release := s.loading.Hold()
	defer release()

	res := retry.Do(ctx, s.exec, "asset", func(ctx context.Context) ([]domain.Asset, error) {
		return s.provider.ListByIDs(ctx, []string{id})
	})
	if !res.OK() {
		return domain.Asset{}, res.AsError()
	}
	for _, a := range res.Value {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Asset{}, domain.ErrAssetNotFound
}

func (s *service) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stored[id]
	return ok
}

func (s *service) Favorites() []domain.Asset { return s.favorites.Get() }

func (s *service) Loading() bool { return s.loading.Get() }

func (s *service) Subscribe(fn func([]domain.Asset)) func() { return s.favorites.Subscribe(fn) }

// inStoredOrder - живые записи в порядке хранилища (по имени); пропавшие у провайдера опускаются
func inStoredOrder(ids []string, live []domain.Asset) []domain.Asset {
	byID := make(map[string]domain.Asset, len(live))
	for _, a := range live {
		byID[a.ID] = a
	}
	out := make([]domain.Asset, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
