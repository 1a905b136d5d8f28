package bot

import (
	"context"
	"log/slog"
	"time"

	"gopkg.in/telebot.v4"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

// Узкие интерфейсы: боту нужны только опубликованные списки и поиск

type Listing interface {
	Assets() []domain.Asset
}

type Movers interface {
	Movers() domain.Movers
}

type Searcher interface {
	Search(ctx context.Context, query string) error
	Results() domain.SearchResults
}

type Favorites interface {
	Favorites() []domain.Asset
}

type Digest interface {
	Enable(ctx context.Context, chatID int64, intervalMinutes int) error
	Disable(ctx context.Context, chatID int64) error
}

// Bot - telegram-бот поверх опубликованных списков
type Bot struct {
	bot       *telebot.Bot
	listing   Listing
	movers    Movers
	search    Searcher
	favorites Favorites // nil, если хранилище не настроено
	digest    Digest    // nil до AttachDigest
	topSize   int
	timeout   time.Duration
	logger    *slog.Logger
}

// New создаёт бота и регистрирует команды
func New(cfg config.TelegramConfig, listing Listing, movers Movers, search Searcher, favorites Favorites, timeout time.Duration, logger *slog.Logger) (*Bot, error) {
	const defaultPollTimeout = 10 * time.Second

	b, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: defaultPollTimeout},
	})
	if err != nil {
		return nil, err
	}

	topSize := cfg.TopSize
	if topSize <= 0 {
		topSize = 10
	}

	bot := &Bot{
		bot:       b,
		listing:   listing,
		movers:    movers,
		search:    search,
		favorites: favorites,
		topSize:   topSize,
		timeout:   timeout,
		logger:    logger,
	}

	// маршруты команд
	b.Handle("/start", bot.handleStart)
	b.Handle("/top", bot.handleTop)
	b.Handle("/gainers", bot.handleGainers)
	b.Handle("/losers", bot.handleLosers)
	b.Handle("/search", bot.handleSearch)
	b.Handle("/favorites", bot.handleFavorites)
	b.Handle("/subscribe", bot.handleSubscribe)
	b.Handle("/unsubscribe", bot.handleUnsubscribe)
	return bot, nil
}

// AttachDigest - подключает сводку; вызывается до Start
func (b *Bot) AttachDigest(d Digest) {
	b.digest = d
}

// SendText - отправка в чат по id, используется рассылкой сводки
func (b *Bot) SendText(chatID int64, text string) error {
	_, err := b.bot.Send(&telebot.Chat{ID: chatID}, text)
	return err
}

// Start запускает long polling до отмены ctx
func (b *Bot) Start(ctx context.Context) {
	go b.bot.Start()
	<-ctx.Done()
	b.bot.Stop()
}
