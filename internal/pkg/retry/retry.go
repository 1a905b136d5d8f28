package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Outcome - чем закончился вызов
type Outcome int

const (
	OK        Outcome = iota // операция вернула данные
	Exhausted                // все попытки неудачны
	Fatal                    // отмена контекста или Permanent-ошибка, повторять бессмысленно
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Exhausted:
		return "exhausted"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result - тегированный результат вызова
type Result[T any] struct {
	Value    T
	Outcome  Outcome
	Attempts int
	Err      error // последняя ошибка; nil при OK
}

func (r Result[T]) OK() bool { return r.Outcome == OK }

// ErrExhausted - оборачивает последнюю ошибку при исчерпании попыток
var ErrExhausted = errors.New("retries exhausted")

// AsError - nil при OK, иначе ошибка; исчерпание распознаётся через errors.Is(err, ErrExhausted)
func (r Result[T]) AsError() error {
	switch r.Outcome {
	case OK:
		return nil
	case Exhausted:
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, r.Attempts, r.Err)
	default:
		return r.Err
	}
}

// Policy - фиксированная задержка между попытками
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPolicy - 15 попыток раз в 5 секунд
var DefaultPolicy = Policy{Attempts: 15, Delay: 5 * time.Second}

// Once - одна попытка без повторов
var Once = Policy{Attempts: 1}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent - помечает ошибку как неповторяемую
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent - ошибка помечена Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Executor - выполняет операции по политике и логирует попытки
type Executor struct {
	policy Policy
	log    *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewExecutor(p Policy, log *slog.Logger) *Executor {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Executor{policy: p, log: log, sleep: sleepCtx}
}

// WithSleep - подмена ожидания (тесты)
func (e *Executor) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Executor {
	cp := *e
	cp.sleep = fn
	return &cp
}

// WithPolicy - тот же исполнитель с другой политикой
func (e *Executor) WithPolicy(p Policy) *Executor {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	cp := *e
	cp.policy = p
	return &cp
}

// Do - вызывает op до первого успеха или исчерпания попыток.
// После последней неудачной попытки задержки нет.
func Do[T any](ctx context.Context, e *Executor, name string, op func(ctx context.Context) (T, error)) Result[T] {
	var res Result[T]
	for attempt := 1; attempt <= e.policy.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			res.Outcome, res.Err = Fatal, err
			return res
		}

		res.Attempts = attempt
		v, err := op(ctx)
		if err == nil {
			res.Value, res.Outcome, res.Err = v, OK, nil
			return res
		}
		res.Err = err

		// таймаут http-клиента тоже матчится на DeadlineExceeded: прерывает только ctx вызывающего
		if ctx.Err() != nil {
			e.log.Warn("operation cancelled",
				slog.String("op", name),
				slog.Int("attempt", attempt),
				slog.String("err", err.Error()))
			res.Outcome = Fatal
			return res
		}
		if IsPermanent(err) {
			e.log.Warn("operation failed permanently",
				slog.String("op", name),
				slog.Int("attempt", attempt),
				slog.String("err", err.Error()))
			res.Outcome = Fatal
			return res
		}

		e.log.Warn("attempt failed",
			slog.String("op", name),
			slog.Int("attempt", attempt),
			slog.Int("max", e.policy.Attempts),
			slog.String("err", err.Error()))

		if attempt == e.policy.Attempts {
			break
		}
		if err := e.sleep(ctx, e.policy.Delay); err != nil {
			res.Outcome, res.Err = Fatal, err
			return res
		}
	}

	e.log.Error("retries exhausted",
		slog.String("op", name),
		slog.Int("attempts", res.Attempts),
		slog.String("err", res.Err.Error()))
	res.Outcome = Exhausted
	return res
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
