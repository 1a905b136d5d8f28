package listing

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/observable"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
)

//go:generate mockgen -source=listing_service.go -destination=mocks/mocks.go -package=mocks

// Постраничная загрузка рейтинга и склейка страниц без дублей

// loadMoreThreshold - за сколько строк до конца списка подгружать следующую страницу
const loadMoreThreshold = 25

type Service interface {
	// LoadPage - загружает страницу n и дописывает новые по id записи
	LoadPage(ctx context.Context, n int) error
	// LoadNext - следующая страница; ничего не делает, пока идёт другая загрузка
	LoadNext(ctx context.Context) error
	// Reset - очищает список, курсор в 1, загружает первую страницу
	Reset(ctx context.Context) error

	Assets() []domain.Asset
	Page() int
	Loading() bool
	Subscribe(fn func([]domain.Asset)) (unsubscribe func())
}

type Provider interface {
	ListByPage(ctx context.Context, page int) ([]domain.Asset, error)
}

type service struct {
	provider Provider
	exec     *retry.Executor
	logger   *slog.Logger

	mu      sync.Mutex // одна загрузка за раз
	page    atomic.Int64
	seen    map[string]struct{}
	assets  *observable.Cell[[]domain.Asset]
	loading *observable.Flag
}

func NewService(provider Provider, exec *retry.Executor, logger *slog.Logger) Service {
	s := &service{
		provider: provider,
		exec:     exec,
		logger:   logger,
		seen:     make(map[string]struct{}),
		assets:   observable.NewCell([]domain.Asset{}),
		loading:  observable.NewFlag(),
	}
	s.page.Store(1)
	return s
}

// ShouldLoadMore - пора ли подгружать следующую страницу для видимой позиции
func ShouldLoadMore(lastVisibleIndex, total int) bool {
	return lastVisibleIndex >= total-loadMoreThreshold
}

func (s *service) LoadPage(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPageLocked(ctx, n)
}

func (s *service) LoadNext(ctx context.Context) error {
	if !s.mu.TryLock() {
		s.logger.Debug("load next skipped: load in flight")
		return nil
	}
	defer s.mu.Unlock()

	next := int(s.page.Load()) + 1
	if err := s.loadPageLocked(ctx, next); err != nil {
		return err
	}
	s.page.Store(int64(next))
	return nil
}

func (s *service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page.Store(1)
	s.seen = make(map[string]struct{})
	s.assets.Set([]domain.Asset{})
	return s.loadPageLocked(ctx, 1)
}

func (s *service) loadPageLocked(ctx context.Context, n int) error {
	release := s.loading.Hold()
	defer release()

	res := retry.Do(ctx, s.exec, "list page", func(ctx context.Context) ([]domain.Asset, error) {
		return s.provider.ListByPage(ctx, n)
	})
	if !res.OK() {
		s.logger.Warn("page not loaded, listing unchanged",
			slog.Int("page", n),
			slog.String("outcome", res.Outcome.String()))
		return res.AsError()
	}

	current := s.assets.Get()
	merged := make([]domain.Asset, len(current), len(current)+len(res.Value))
	copy(merged, current)

	added := 0
	for _, a := range res.Value {
		if a.HasID() {
			if _, dup := s.seen[a.ID]; dup {
				continue
			}
			s.seen[a.ID] = struct{}{}
		}
		merged = append(merged, a)
		added++
	}

	s.assets.Set(merged)
	s.logger.Info("page loaded",
		slog.Int("page", n),
		slog.Int("received", len(res.Value)),
		slog.Int("added", added),
		slog.Int("total", len(merged)))
	return nil
}

func (s *service) Assets() []domain.Asset { return s.assets.Get() }

func (s *service) Page() int { return int(s.page.Load()) }

func (s *service) Loading() bool { return s.loading.Get() }

func (s *service) Subscribe(fn func([]domain.Asset)) func() { return s.assets.Subscribe(fn) }
