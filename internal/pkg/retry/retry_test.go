package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestExecutor(p Policy, slept *[]time.Duration) *Executor {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExecutor(p, log).WithSleep(func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	})
}

// Всегда падающий провайдер вызывается ровно 15 раз, паники и ошибки наружу нет
func TestDo_ExhaustsAfterAllAttempts(t *testing.T) {
	var slept []time.Duration
	e := newTestExecutor(DefaultPolicy, &slept)

	calls := 0
	res := Do(context.Background(), e, "listByPage", func(context.Context) ([]int, error) {
		calls++
		return nil, errors.New("503")
	})

	if calls != 15 {
		t.Fatalf("calls = %d, want 15", calls)
	}
	if res.Outcome != Exhausted || res.Attempts != 15 {
		t.Fatalf("result = %+v", res)
	}
	if len(slept) != 14 {
		t.Fatalf("slept %d times, want 14", len(slept))
	}
	for _, d := range slept {
		if d != 5*time.Second {
			t.Fatalf("delay = %v", d)
		}
	}
}

func TestDo_StopsOnFirstSuccess(t *testing.T) {
	var slept []time.Duration
	e := newTestExecutor(Policy{Attempts: 5, Delay: time.Second}, &slept)

	calls := 0
	res := Do(context.Background(), e, "op", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("timeout")
		}
		return "ok", nil
	})

	if !res.OK() || res.Value != "ok" || res.Attempts != 3 || res.Err != nil {
		t.Fatalf("result = %+v", res)
	}
	if len(slept) != 2 {
		t.Fatalf("slept = %v", slept)
	}
}

func TestDo_PermanentIsFatal(t *testing.T) {
	var slept []time.Duration
	e := newTestExecutor(DefaultPolicy, &slept)

	base := errors.New("bad shape")
	calls := 0
	res := Do(context.Background(), e, "op", func(context.Context) (int, error) {
		calls++
		return 0, Permanent(base)
	})

	if calls != 1 || res.Outcome != Fatal || !errors.Is(res.Err, base) {
		t.Fatalf("calls=%d result=%+v", calls, res)
	}
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var slept []time.Duration
	e := newTestExecutor(DefaultPolicy, &slept)
	calls := 0
	res := Do(ctx, e, "op", func(context.Context) (int, error) {
		calls++
		return 1, nil
	})

	if calls != 0 || res.Outcome != Fatal || !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("calls=%d result=%+v", calls, res)
	}
}

func TestSleepCtx_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestResult_AsError(t *testing.T) {
	base := errors.New("boom")
	if err := (Result[int]{Outcome: OK}).AsError(); err != nil {
		t.Fatalf("ok -> %v", err)
	}
	err := (Result[int]{Outcome: Exhausted, Attempts: 3, Err: base}).AsError()
	if !errors.Is(err, ErrExhausted) || !errors.Is(err, base) {
		t.Fatalf("exhausted -> %v", err)
	}
	if err := (Result[int]{Outcome: Fatal, Err: base}).AsError(); !errors.Is(err, base) || errors.Is(err, ErrExhausted) {
		t.Fatalf("fatal -> %v", err)
	}
}

// Таймаут http-клиента - сбой транспорта, попытка повторяется
func TestDo_HTTPClientTimeoutIsRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-r.Context().Done():
			}
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 50 * time.Millisecond}
	var slept []time.Duration
	e := newTestExecutor(Policy{Attempts: 5, Delay: time.Millisecond}, &slept)

	res := Do(context.Background(), e, "get", func(ctx context.Context) (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		if err != nil {
			return 0, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		return resp.StatusCode, nil
	})

	if !res.OK() || res.Value != http.StatusOK || res.Attempts != 3 {
		t.Fatalf("result = %+v", res)
	}
	if len(slept) != 2 {
		t.Fatalf("slept = %v", slept)
	}
}

// Ошибка, пришедшая вместе с отменой ctx вызывающего, прерывает повторы
func TestDo_CallerCancelledDuringAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var slept []time.Duration
	e := newTestExecutor(DefaultPolicy, &slept)
	calls := 0
	res := Do(ctx, e, "op", func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, ctx.Err()
	})

	if calls != 1 || res.Outcome != Fatal || !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("calls=%d result=%+v", calls, res)
	}
	if len(slept) != 0 {
		t.Fatalf("slept = %v", slept)
	}
}

// Ошибка с DeadlineExceeded в цепочке при живом ctx - обычный сбой
func TestDo_WrappedDeadlineWithLiveContext(t *testing.T) {
	var slept []time.Duration
	e := newTestExecutor(Policy{Attempts: 3}, &slept)
	calls := 0
	res := Do(context.Background(), e, "op", func(context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("upstream: %w", context.DeadlineExceeded)
	})

	if calls != 3 || res.Outcome != Exhausted {
		t.Fatalf("calls=%d result=%+v", calls, res)
	}
}
