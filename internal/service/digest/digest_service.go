package digest

//go:generate mockgen -source=digest_service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/botfmt"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/clock"
)

var ErrInvalidInterval = errors.New("digest interval must be > 0")

// Service - периодическая сводка лидеров роста и падения по подписанным чатам
type Service interface {
	// Enable - идемпотентна: повторный вызов обновляет интервал
	Enable(ctx context.Context, chatID int64, intervalMinutes int) error
	// Disable - идемпотентна: выключенная подписка не ошибка
	Disable(ctx context.Context, chatID int64) error
	// DispatchDue - одна итерация рассылки, возвращает число отправленных сообщений
	DispatchDue(ctx context.Context) (int, error)
}

type Store interface {
	MarkEnabled(ctx context.Context, chatID int64, intervalMinutes int) error
	MarkDisabled(ctx context.Context, chatID int64) error
	FindDue(ctx context.Context, now time.Time) ([]int64, error)
	MarkSent(ctx context.Context, chatID int64, at time.Time) error
}

// MoversSource - опубликованные лидеры, сводка не ходит к провайдерам сама
type MoversSource interface {
	Movers() domain.Movers
}

type Sender interface {
	SendText(chatID int64, text string) error
}

type service struct {
	store   Store
	movers  MoversSource
	sender  Sender
	topSize int
	clock   clock.Clock
	log     *slog.Logger
}

func NewService(store Store, movers MoversSource, sender Sender, topSize int, logger *slog.Logger) Service {
	return NewServiceWithClock(store, movers, sender, topSize, clock.NewRealClock(), logger)
}

func NewServiceWithClock(store Store, movers MoversSource, sender Sender, topSize int, clk clock.Clock, logger *slog.Logger) Service {
	if topSize <= 0 {
		topSize = 10
	}
	return &service{store: store, movers: movers, sender: sender, topSize: topSize, clock: clk, log: logger}
}

func (s *service) Enable(ctx context.Context, chatID int64, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return ErrInvalidInterval
	}
	if err := s.store.MarkEnabled(ctx, chatID, intervalMinutes); err != nil {
		s.log.Error("digest.enable failed",
			slog.Int64("chat_id", chatID),
			slog.Int("interval_min", intervalMinutes),
			slog.String("error", err.Error()))
		return err
	}
	s.log.Info("digest.enable ok", slog.Int64("chat_id", chatID), slog.Int("interval_min", intervalMinutes))
	return nil
}

func (s *service) Disable(ctx context.Context, chatID int64) error {
	if err := s.store.MarkDisabled(ctx, chatID); err != nil {
		s.log.Error("digest.disable failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
		return err
	}
	s.log.Info("digest.disable ok", slog.Int64("chat_id", chatID))
	return nil
}

// DispatchDue - пока лидеры не опубликованы, ничего не отправляем и не отмечаем
func (s *service) DispatchDue(ctx context.Context) (int, error) {
	now := s.clock.Now()

	chatIDs, err := s.store.FindDue(ctx, now)
	if err != nil {
		s.log.Error("digest.find_due failed", slog.String("error", err.Error()))
		return 0, err
	}
	if len(chatIDs) == 0 {
		s.log.Debug("digest.no_due")
		return 0, nil
	}

	m := s.movers.Movers()
	if len(m.Gainers) == 0 && len(m.Losers) == 0 {
		s.log.Warn("digest.movers_not_ready", slog.Int("due", len(chatIDs)))
		return 0, nil
	}
	msg := s.message(m)

	sent := 0
	for _, chatID := range chatIDs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.sender.SendText(chatID, msg); err != nil {
			s.log.Error("digest.send failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
			continue
		}
		if err := s.store.MarkSent(ctx, chatID, now); err != nil {
			s.log.Error("digest.mark_sent failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	s.log.Info("digest.dispatch_done", slog.Int("due", len(chatIDs)), slog.Int("sent", sent))
	return sent, nil
}

func (s *service) message(m domain.Movers) string {
	var parts []string
	if len(m.Gainers) > 0 {
		parts = append(parts, botfmt.FormatAssetList("Лидеры роста за 24ч:", m.Gainers, s.topSize))
	}
	if len(m.Losers) > 0 {
		parts = append(parts, botfmt.FormatAssetList("Лидеры падения за 24ч:", m.Losers, s.topSize))
	}
	return strings.Join(parts, "\n\n")
}
