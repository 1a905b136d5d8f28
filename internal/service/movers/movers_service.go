package movers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/clock"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/observable"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
)

//go:generate mockgen -source=movers_service.go -destination=mocks/mocks.go -package=mocks

// Лидеры роста/падения: страница без id + привязка id через провайдера по имени

type Service interface {
	// Refresh - скачивает лидерборд, привязывает id и публикует оба списка
	Refresh(ctx context.Context) error

	Movers() domain.Movers
	Loading() bool
	Subscribe(fn func(domain.Movers)) (unsubscribe func())
}

type Leaderboard interface {
	Fetch(ctx context.Context) (domain.Movers, error)
}

type Provider interface {
	ListByNames(ctx context.Context, names []string) ([]domain.Asset, error)
}

type service struct {
	board    Leaderboard
	provider Provider
	exec     *retry.Executor
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	movers  *observable.Cell[domain.Movers]
	loading *observable.Flag
}

func NewService(board Leaderboard, provider Provider, exec *retry.Executor, logger *slog.Logger) Service {
	return NewServiceWithClock(board, provider, exec, clock.NewRealClock(), logger)
}

// NewServiceWithClock - Конструктор для тестов: позволяет подставить фиксированные "часы".
func NewServiceWithClock(board Leaderboard, provider Provider, exec *retry.Executor, clk clock.Clock, logger *slog.Logger) Service {
	return &service{
		board:    board,
		provider: provider,
		exec:     exec,
		clock:    clk,
		logger:   logger,
		movers:   observable.NewCell(domain.Movers{Gainers: []domain.Asset{}, Losers: []domain.Asset{}}),
		loading:  observable.NewFlag(),
	}
}

func (s *service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	release := s.loading.Hold()
	defer release()

	// разметка страницы от повтора не исправится
	scraped := retry.Do(ctx, s.exec.WithPolicy(retry.Once), "scrape leaderboard", s.board.Fetch)
	if !scraped.OK() {
		s.logger.Warn("leaderboard not refreshed", slog.String("outcome", scraped.Outcome.String()))
		return scraped.AsError()
	}

	names := Names(scraped.Value)
	if len(names) == 0 {
		s.logger.Warn("leaderboard is empty, keeping previous movers")
		return nil
	}

	resolved := retry.Do(ctx, s.exec, "resolve movers", func(ctx context.Context) ([]domain.Asset, error) {
		return s.provider.ListByNames(ctx, names)
	})
	if !resolved.OK() {
		s.logger.Warn("movers identities not resolved", slog.String("outcome", resolved.Outcome.String()))
		return resolved.AsError()
	}

	out := ResolveIdentities(scraped.Value, resolved.Value, s.clock.Now())
	s.movers.Set(out)
	s.logger.Info("movers refreshed",
		slog.Int("gainers", len(out.Gainers)),
		slog.Int("losers", len(out.Losers)),
		slog.Int("scraped", len(scraped.Value.Gainers)+len(scraped.Value.Losers)))
	return nil
}

// Names - имена из обоих списков без повторов, в порядке страницы
func Names(m domain.Movers) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range [][]domain.Asset{m.Gainers, m.Losers} {
		for _, a := range list {
			if a.Name == "" {
				continue
			}
			if _, ok := seen[a.Name]; ok {
				continue
			}
			seen[a.Name] = struct{}{}
			out = append(out, a.Name)
		}
	}
	return out
}

// ResolveIdentities - копирует id провайдера на записи с тем же именем и ставит lastUpdated.
// Записи без совпадения выбрасываются, порядок страницы сохраняется.
func ResolveIdentities(scraped domain.Movers, records []domain.Asset, now time.Time) domain.Movers {
	byName := make(map[string]string, len(records))
	for _, r := range records {
		if !r.HasID() {
			continue
		}
		if _, ok := byName[r.Name]; !ok {
			byName[r.Name] = r.ID
		}
	}

	stamp := now.UTC().Format(time.RFC3339Nano)
	attach := func(in []domain.Asset) []domain.Asset {
		out := make([]domain.Asset, 0, len(in))
		for _, a := range in {
			id, ok := byName[a.Name]
			if !ok {
				continue
			}
			a.ID = id
			a.LastUpdated = stamp
			out = append(out, a)
		}
		return out
	}

	return domain.Movers{
		Gainers: attach(scraped.Gainers),
		Losers:  attach(scraped.Losers),
	}
}

func (s *service) Movers() domain.Movers { return s.movers.Get() }

func (s *service) Loading() bool { return s.loading.Get() }

func (s *service) Subscribe(fn func(domain.Movers)) func() { return s.movers.Subscribe(fn) }
