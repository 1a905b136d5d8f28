package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/observable"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
)

//go:generate mockgen -source=search_service.go -destination=mocks/mocks.go -package=mocks

type Service interface {
	// Search - запрос -> id кандидатов -> полные записи одним запросом.
	// Опубликованный результат заменяется целиком только при успехе.
	Search(ctx context.Context, query string) error

	Results() domain.SearchResults
	Loading() bool
	Subscribe(fn func(domain.SearchResults)) (unsubscribe func())
}

type Provider interface {
	Search(ctx context.Context, query string) ([]domain.Candidate, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Asset, error)
}

// CandidateCache - кэш id кандидатов по запросу; может отсутствовать
type CandidateCache interface {
	GetIDs(ctx context.Context, query string) ([]string, bool, error)
	SetIDs(ctx context.Context, query string, ids []string) error
}

type service struct {
	provider Provider
	cache    CandidateCache
	exec     *retry.Executor
	logger   *slog.Logger

	mu      sync.Mutex
	results *observable.Cell[domain.SearchResults]
	loading *observable.Flag
}

// NewService - cache может быть nil
func NewService(provider Provider, cache CandidateCache, exec *retry.Executor, logger *slog.Logger) Service {
	return &service{
		provider: provider,
		cache:    cache,
		exec:     exec,
		logger:   logger,
		results:  observable.NewCell(domain.SearchResults{Assets: []domain.Asset{}}),
		loading:  observable.NewFlag(),
	}
}

func (s *service) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ErrEmptyQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	release := s.loading.Hold()
	defer release()

	res := retry.Do(ctx, s.exec, "search", func(ctx context.Context) ([]domain.Asset, error) {
		ids, err := s.candidates(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []domain.Asset{}, nil
		}
		return s.provider.ListByIDs(ctx, ids)
	})
	if !res.OK() {
		s.logger.Warn("search failed, results unchanged",
			slog.String("query", query),
			slog.String("outcome", res.Outcome.String()))
		return res.AsError()
	}

	assets := res.Value
	if assets == nil {
		assets = []domain.Asset{}
	}
	s.results.Set(domain.SearchResults{Query: query, Assets: assets})
	s.logger.Info("search completed", slog.String("query", query), slog.Int("found", len(assets)))
	return nil
}

func (s *service) candidates(ctx context.Context, query string) ([]string, error) {
	if s.cache != nil {
		ids, ok, err := s.cache.GetIDs(ctx, query)
		if err != nil {
			s.logger.Warn("search cache read failed", slog.String("err", err.Error()))
		} else if ok {
			return ids, nil
		}
	}

	found, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, c := range found {
		if c.ID == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}

	if s.cache != nil {
		if err := s.cache.SetIDs(ctx, query, ids); err != nil {
			s.logger.Warn("search cache write failed", slog.String("err", err.Error()))
		}
	}
	return ids, nil
}

func (s *service) Results() domain.SearchResults { return s.results.Get() }

func (s *service) Loading() bool { return s.loading.Get() }

func (s *service) Subscribe(fn func(domain.SearchResults)) func() { return s.results.Subscribe(fn) }
