package search

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
	searchmocks "github.com/NastyaGoryachaya/crypto-market-service/internal/service/search/mocks"
	"github.com/NastyaGoryachaya/crypto-market-service/pkg/logger"
)

func setupSvc(t *testing.T, withCache bool) (context.Context, *gomock.Controller, *searchmocks.MockProvider, *searchmocks.MockCandidateCache, Service) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := searchmocks.NewMockProvider(ctrl)
	exec := retry.NewExecutor(retry.Policy{Attempts: 3}, logger.Discard())

	var cache *searchmocks.MockCandidateCache
	var svc Service
	if withCache {
		cache = searchmocks.NewMockCandidateCache(ctrl)
		svc = NewService(provider, cache, exec, logger.Discard())
	} else {
		svc = NewService(provider, nil, exec, logger.Discard())
	}
	return context.Background(), ctrl, provider, cache, svc
}

func TestSearch_TwoSteps(t *testing.T) {
	ctx, ctrl, provider, _, svc := setupSvc(t, false)
	defer ctrl.Finish()

	gomock.InOrder(
		provider.EXPECT().Search(gomock.Any(), "eth").Return([]domain.Candidate{
			{ID: "ethereum", Name: "Ethereum"},
			{ID: "ethereum-classic", Name: "Ethereum Classic"},
			{ID: "ethereum", Name: "Ethereum"},
		}, nil),
		provider.EXPECT().ListByIDs(gomock.Any(), []string{"ethereum", "ethereum-classic"}).Return([]domain.Asset{
			{ID: "ethereum", CurrentPrice: 3000},
			{ID: "ethereum-classic", CurrentPrice: 20},
		}, nil),
	)

	if err := svc.Search(ctx, "  eth "); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := svc.Results()
	if got.Query != "eth" || len(got.Assets) != 2 || got.Assets[0].CurrentPrice != 3000 {
		t.Fatalf("results = %+v", got)
	}
}

// Ноль кандидатов - пустой список без второго запроса
func TestSearch_NoCandidates(t *testing.T) {
	ctx, ctrl, provider, _, svc := setupSvc(t, false)
	defer ctrl.Finish()

	provider.EXPECT().Search(gomock.Any(), "zzz").Return(nil, nil)

	if err := svc.Search(ctx, "zzz"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := svc.Results(); got.Assets == nil || len(got.Assets) != 0 {
		t.Fatalf("results = %#v", got)
	}
}

// Сбой второго шага повторяется вместе с первым и не стирает прошлый результат
func TestSearch_SecondStepFailureKeepsPrevious(t *testing.T) {
	ctx, ctrl, provider, _, svc := setupSvc(t, false)
	defer ctrl.Finish()

	provider.EXPECT().Search(gomock.Any(), "btc").Return([]domain.Candidate{{ID: "bitcoin"}}, nil)
	provider.EXPECT().ListByIDs(gomock.Any(), []string{"bitcoin"}).Return([]domain.Asset{{ID: "bitcoin"}}, nil)
	if err := svc.Search(ctx, "btc"); err != nil {
		t.Fatal(err)
	}

	provider.EXPECT().Search(gomock.Any(), "sol").Return([]domain.Candidate{{ID: "solana"}}, nil).Times(3)
	provider.EXPECT().ListByIDs(gomock.Any(), []string{"solana"}).Return(nil, errors.New("500")).Times(3)

	if err := svc.Search(ctx, "sol"); !errors.Is(err, retry.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	got := svc.Results()
	if got.Query != "btc" || len(got.Assets) != 1 {
		t.Fatalf("results overwritten: %+v", got)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	ctx, ctrl, _, _, svc := setupSvc(t, false)
	defer ctrl.Finish()

	if err := svc.Search(ctx, "   "); !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("err = %v", err)
	}
}

// Попадание в кэш пропускает текстовый поиск, цены всё равно живые
func TestSearch_CacheHit(t *testing.T) {
	ctx, ctrl, provider, cache, svc := setupSvc(t, true)
	defer ctrl.Finish()

	cache.EXPECT().GetIDs(gomock.Any(), "btc").Return([]string{"bitcoin"}, true, nil)
	provider.EXPECT().ListByIDs(gomock.Any(), []string{"bitcoin"}).Return([]domain.Asset{{ID: "bitcoin", CurrentPrice: 1}}, nil)

	if err := svc.Search(ctx, "btc"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := svc.Results(); len(got.Assets) != 1 {
		t.Fatalf("results = %+v", got)
	}
}

func TestSearch_CacheMissStoresCandidates(t *testing.T) {
	ctx, ctrl, provider, cache, svc := setupSvc(t, true)
	defer ctrl.Finish()

	cache.EXPECT().GetIDs(gomock.Any(), "doge").Return(nil, false, errors.New("redis down"))
	provider.EXPECT().Search(gomock.Any(), "doge").Return([]domain.Candidate{{ID: "dogecoin"}}, nil)
	cache.EXPECT().SetIDs(gomock.Any(), "doge", []string{"dogecoin"}).Return(nil)
	provider.EXPECT().ListByIDs(gomock.Any(), []string{"dogecoin"}).Return([]domain.Asset{{ID: "dogecoin"}}, nil)

	if err := svc.Search(ctx, "doge"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

// Сбои кэша на чтении и записи не мешают поиску
func TestSearch_CacheErrorsIgnored(t *testing.T) {
	ctx, ctrl, provider, cache, svc := setupSvc(t, true)
	defer ctrl.Finish()

	cache.EXPECT().GetIDs(gomock.Any(), "sol").Return(nil, false, errors.New("redis down"))
	provider.EXPECT().Search(gomock.Any(), "sol").Return([]domain.Candidate{{ID: "solana"}, {ID: "solana"}, {ID: ""}}, nil)
	cache.EXPECT().SetIDs(gomock.Any(), "sol", []string{"solana"}).Return(errors.New("redis down"))
	provider.EXPECT().ListByIDs(gomock.Any(), []string{"solana"}).Return([]domain.Asset{{ID: "solana", Name: "Solana"}}, nil)

	if err := svc.Search(ctx, "sol"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := svc.Results()
	if got.Query != "sol" || len(got.Assets) != 1 || got.Assets[0].ID != "solana" {
		t.Fatalf("results = %+v", got)
	}
}
