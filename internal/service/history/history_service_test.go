package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/infra/binance"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/clock"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
	historymocks "github.com/NastyaGoryachaya/crypto-market-service/internal/service/history/mocks"
	"github.com/NastyaGoryachaya/crypto-market-service/pkg/logger"
)

const minute = int64(60_000)

// now с миллисекундами: конец диапазона обрезается до секунды
var now = time.Date(2025, 9, 1, 12, 0, 0, 500_000_000, time.UTC)

var endMs = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC).UnixMilli()

func setupSvc(t *testing.T) (context.Context, *gomock.Controller, *historymocks.MockProvider, Service) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := historymocks.NewMockProvider(ctrl)
	exec := retry.NewExecutor(retry.Policy{Attempts: 2}, logger.Discard())
	svc := NewServiceWithClock(provider, exec, clock.NewFixed(now), logger.Discard())
	return context.Background(), ctrl, provider, svc
}

func bars(openTimes ...int64) []domain.Kline {
	out := make([]domain.Kline, 0, len(openTimes))
	for _, ot := range openTimes {
		out = append(out, domain.Kline{OpenTime: ot, Open: "1", High: "1", Low: "1", Close: "1", CloseTime: ot + minute - 1})
	}
	return out
}

// Час минутных баров помещается в один кусок
func TestPlanChunks_OneHourOfMinutes(t *testing.T) {
	got := PlanChunks(0, 3_600_000, domain.IntervalMinute)
	want := []Chunk{{Start: -minute, End: 3_600_000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPlanChunks_NewestFirst(t *testing.T) {
	end := int64(10_000_000_000)
	start := end - 2500*minute
	span := 1000 * minute

	got := PlanChunks(start, end, domain.IntervalMinute)
	want := []Chunk{
		{Start: end - span, End: end},
		{Start: end - 2*span, End: end - span},
		{Start: start - minute, End: end - 2*span},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPlanChunks_Edges(t *testing.T) {
	if got := PlanChunks(100, 100, domain.IntervalDay); len(got) != 0 {
		t.Fatalf("empty range -> %v", got)
	}
	// меньше одного бара - ни одного куска
	if got := PlanChunks(0, minute-1, domain.IntervalMinute); len(got) != 0 {
		t.Fatalf("sub-bar range -> %v", got)
	}
	if got := PlanChunks(0, 1000*minute, domain.IntervalMinute); len(got) != 1 {
		t.Fatalf("exactly 1000 bars -> %d chunks", len(got))
	}
	if got := PlanChunks(0, 1001*minute, domain.IntervalMinute); len(got) != 2 {
		t.Fatalf("1001 bars -> %d chunks", len(got))
	}
}

// Куски запрашиваются от новых к старым, итог по возрастанию без дублей
func TestLoad_OrderedAndDeduplicated(t *testing.T) {
	ctx, ctrl, provider, svc := setupSvc(t)
	defer ctrl.Finish()

	start := endMs - 1500*minute
	chunks := PlanChunks(start, endMs, domain.IntervalMinute)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d", len(chunks))
	}

	gomock.InOrder(
		provider.EXPECT().GetRange(gomock.Any(), "btc", chunks[0].Start, chunks[0].End, domain.IntervalMinute).
			Return(bars(endMs-2*minute, endMs-minute, chunks[0].Start), nil),
		provider.EXPECT().GetRange(gomock.Any(), "btc", chunks[1].Start, chunks[1].End, domain.IntervalMinute).
			Return(bars(start, chunks[0].Start, start+minute), nil),
	)

	if err := svc.Load(ctx, "btc", start, domain.IntervalMinute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got := svc.Series()
	if got.Key != (domain.SeriesKey{Symbol: "btc", StartTime: start, Interval: domain.IntervalMinute}) {
		t.Fatalf("key = %+v", got.Key)
	}
	if len(got.Points) != 5 {
		t.Fatalf("points = %d, want 5", len(got.Points))
	}
	for i := 1; i < len(got.Points); i++ {
		if got.Points[i-1].OpenTime >= got.Points[i].OpenTime {
			t.Fatalf("not strictly ascending at %d: %d >= %d", i, got.Points[i-1].OpenTime, got.Points[i].OpenTime)
		}
	}
}

// Упавший кусок оставляет дыру, остальное публикуется
func TestLoad_SkipsFailedChunk(t *testing.T) {
	ctx, ctrl, provider, svc := setupSvc(t)
	defer ctrl.Finish()

	start := endMs - 1500*minute
	chunks := PlanChunks(start, endMs, domain.IntervalMinute)

	provider.EXPECT().GetRange(gomock.Any(), "eth", chunks[0].Start, chunks[0].End, gomock.Any()).
		Return(nil, errors.New("418")).Times(2)
	provider.EXPECT().GetRange(gomock.Any(), "eth", chunks[1].Start, chunks[1].End, gomock.Any()).
		Return(bars(start, start+minute), nil)

	if err := svc.Load(ctx, "eth", start, domain.IntervalMinute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := svc.Series(); len(got.Points) != 2 {
		t.Fatalf("points = %+v", got.Points)
	}
}

// Битый ответ не повторяется
func TestLoad_MalformedChunkNotRetried(t *testing.T) {
	ctx, ctrl, provider, svc := setupSvc(t)
	defer ctrl.Finish()

	start := endMs - 10*minute
	provider.EXPECT().GetRange(gomock.Any(), "eth", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("row 0: %w", domain.ErrMalformedKline)).Times(1)

	if err := svc.Load(ctx, "eth", start, domain.IntervalMinute); !errors.Is(err, retry.ErrExhausted) {
		t.Fatalf("err = %v", err)
	}
}

// Если не пришёл ни один кусок, прошлый ряд остаётся
func TestLoad_AllChunksFailedKeepsPrevious(t *testing.T) {
	ctx, ctrl, provider, svc := setupSvc(t)
	defer ctrl.Finish()

	start := endMs - 10*minute
	provider.EXPECT().GetRange(gomock.Any(), "btc", gomock.Any(), gomock.Any(), gomock.Any()).Return(bars(start), nil)
	if err := svc.Load(ctx, "btc", start, domain.IntervalMinute); err != nil {
		t.Fatal(err)
	}

	provider.EXPECT().GetRange(gomock.Any(), "eth", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("down")).Times(2)
	if err := svc.Load(ctx, "eth", start, domain.IntervalMinute); !errors.Is(err, retry.ErrExhausted) {
		t.Fatalf("err = %v", err)
	}
	if got := svc.Series(); got.Key.Symbol != "btc" || len(got.Points) != 1 {
		t.Fatalf("series replaced: %+v", got)
	}
	if svc.Loading() {
		t.Fatalf("loading flag must be released")
	}
}

func TestLoad_InvalidInterval(t *testing.T) {
	ctx, ctrl, _, svc := setupSvc(t)
	defer ctrl.Finish()

	if err := svc.Load(ctx, "btc", 0, domain.Interval("5m")); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("err = %v", err)
	}
}

// USDT: OHLC каждого бара ровно "1.0"
func TestLoad_SyntheticQuoteAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := r.URL.Query().Get("symbol"); s != "BTCUSDT" {
			t.Errorf("symbol = %q", s)
		}
		_, _ = w.Write([]byte(`[
			[1756724400000,"108000.1","108100.0","107900.0","108050.0","1",1756727999999],
			[1756728000000,"108050.0","108200.0","108000.0","108150.0","1",1756731599999]
		]`))
	}))
	defer srv.Close()

	client := binance.NewClient(config.BinanceConfig{BaseURL: srv.URL, Timeout: time.Second})
	exec := retry.NewExecutor(retry.Policy{Attempts: 1}, logger.Discard())
	svc := NewServiceWithClock(client, exec, clock.NewFixed(now), logger.Discard())

	start := endMs - 24*3_600_000
	if err := svc.Load(context.Background(), "usdt", start, domain.IntervalHour); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got := svc.Series()
	if len(got.Points) != 2 {
		t.Fatalf("points = %d", len(got.Points))
	}
	for _, k := range got.Points {
		if k.Open != "1.0" || k.High != "1.0" || k.Low != "1.0" || k.Close != "1.0" {
			t.Fatalf("bar = %+v", k)
		}
	}
}
