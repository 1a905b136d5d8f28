package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/botfmt"
)

// maxTop - больше строк в одно сообщение не помещаем
const maxTop = 50

var errInvalidCount = errors.New("invalid count")

const helpText = "Привет! Доступные команды:\n" +
	"/top [n] - первые n монет по капитализации\n" +
	"/gainers - лидеры роста за 24ч\n" +
	"/losers - лидеры падения за 24ч\n" +
	"/search {запрос} - поиск монеты\n" +
	"/favorites - избранное\n" +
	"/subscribe [мин] - сводка лидеров каждые мин минут (по умолчанию 60)\n" +
	"/unsubscribe - отключить сводку"

// defaultDigestMinutes - интервал сводки без аргумента
const defaultDigestMinutes = 60

// maxDigestMinutes - не реже раза в сутки
const maxDigestMinutes = 24 * 60

func (b *Bot) handleStart(c telebot.Context) error {
	return c.Send(helpText)
}

// handleTop - первые n записей рейтинга, по умолчанию topSize
func (b *Bot) handleTop(c telebot.Context) error {
	n := b.topSize
	if args := c.Args(); len(args) > 0 {
		v, err := parseCount(args[0])
		if err != nil {
			return c.Send("Некорректное число. Пример: /top 10")
		}
		n = v
	}
	return c.Send(listMessage("Топ по капитализации:", b.listing.Assets(), n))
}

func (b *Bot) handleGainers(c telebot.Context) error {
	return c.Send(listMessage("Лидеры роста за 24ч:", b.movers.Movers().Gainers, b.topSize))
}

func (b *Bot) handleLosers(c telebot.Context) error {
	return c.Send(listMessage("Лидеры падения за 24ч:", b.movers.Movers().Losers, b.topSize))
}

func (b *Bot) handleSearch(c telebot.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args(), " "))
	if query == "" {
		return c.Send("Укажи запрос: /search bitcoin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.search.Search(ctx, query); err != nil {
		b.logger.Warn("bot: search failed", slog.String("query", query), slog.String("error", err.Error()))
		return c.Send("Поиск сейчас недоступен, попробуйте позже")
	}
	return c.Send(listMessage("Найдено по запросу «"+query+"»:", b.search.Results().Assets, b.topSize))
}

func (b *Bot) handleFavorites(c telebot.Context) error {
	if b.favorites == nil {
		return c.Send("Избранное не настроено")
	}
	return c.Send(listMessage("Избранное:", b.favorites.Favorites(), 0))
}

func (b *Bot) handleSubscribe(c telebot.Context) error {
	if b.digest == nil {
		return c.Send("Сводка не настроена")
	}
	minutes := defaultDigestMinutes
	if args := c.Args(); len(args) > 0 {
		v, err := parseMinutes(args[0])
		if err != nil {
			return c.Send("Некорректный интервал. Пример: /subscribe 30")
		}
		minutes = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.digest.Enable(ctx, c.Chat().ID, minutes); err != nil {
		b.logger.Warn("bot: subscribe failed", slog.Int64("chat_id", c.Chat().ID), slog.String("error", err.Error()))
		return c.Send("Не удалось включить сводку, попробуйте позже")
	}
	return c.Send("Сводка включена: каждые " + strconv.Itoa(minutes) + " мин")
}

func (b *Bot) handleUnsubscribe(c telebot.Context) error {
	if b.digest == nil {
		return c.Send("Сводка не настроена")
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.digest.Disable(ctx, c.Chat().ID); err != nil {
		b.logger.Warn("bot: unsubscribe failed", slog.Int64("chat_id", c.Chat().ID), slog.String("error", err.Error()))
		return c.Send("Не удалось отключить сводку, попробуйте позже")
	}
	return c.Send("Сводка отключена")
}

// listMessage - пустой список отдельным текстом, иначе нумерованный список
func listMessage(title string, items []domain.Asset, limit int) string {
	if len(items) == 0 {
		return "Данных пока нет"
	}
	return botfmt.FormatAssetList(title, items, limit)
}

// parseCount - парсит число строк и валидирует (1..maxTop)
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > maxTop {
		return 0, errInvalidCount
	}
	return n, nil
}

// parseMinutes - интервал сводки (1..maxDigestMinutes)
func parseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > maxDigestMinutes {
		return 0, errInvalidCount
	}
	return n, nil
}
