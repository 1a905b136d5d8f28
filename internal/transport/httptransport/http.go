package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/clock"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/ports/errcode"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/favorites"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/history"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/listing"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/movers"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/search"
)

// Services - сервисы, чьи опубликованные списки отдаёт API
type Services struct {
	Listing   listing.Service
	Movers    movers.Service
	Search    search.Service
	History   history.Service
	Favorites favorites.Service // nil, если хранилище не настроено
}

// ListingResponse - DTO состояния рейтинга
type ListingResponse struct {
	Assets  []domain.Asset `json:"assets"`
	Page    int            `json:"page"`
	Total   int            `json:"total"`
	Loading bool           `json:"loading"`
}

// AssetResponse - DTO одного актива с признаком избранного
type AssetResponse struct {
	domain.Asset
	Favorite bool `json:"favorite"`
}

// Handler - HTTP-handler поверх опубликованных списков.
// Операции выполняются синхронно в пределах timeout, ответ - опубликованное состояние.
type Handler struct {
	logger  *slog.Logger
	svc     Services
	clock   clock.Clock
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, svc Services, clk clock.Clock, timeout time.Duration) *Handler {
	// Задаём таймаут по умолчанию, если он не задан
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Handler{
		logger:  logger,
		svc:     svc,
		clock:   clk,
		timeout: timeout,
	}
}

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func (h *Handler) RegisterRoutes(r router) {
	r.GET("/assets", h.GetAssets)
	r.POST("/assets/next", h.LoadNext)
	r.POST("/assets/refresh", h.RefreshAssets)
	r.GET("/assets/:id", h.GetAsset)

	r.GET("/movers", h.GetMovers)
	r.POST("/movers/refresh", h.RefreshMovers)

	r.GET("/search", h.Search)
	r.GET("/history/:symbol", h.GetHistory)

	r.GET("/favorites", h.GetFavorites)
	r.POST("/favorites", h.SaveFavorite)
	r.DELETE("/favorites/:id", h.DeleteFavorite)
}

func (h *Handler) GetAssets(c echo.Context) error {
	if raw := c.QueryParam("last_visible"); raw != "" {
		last, err := strconv.Atoi(raw)
		if err != nil || last < 0 {
			return h.fail(c, "GetAssets", errcode.BadRequest, nil)
		}
		if listing.ShouldLoadMore(last, len(h.svc.Listing.Assets())) {
			ctx, cancel := h.ctx(c)
			defer cancel()
			if err := h.svc.Listing.LoadNext(ctx); err != nil {
				h.logger.Warn("load more failed", slog.String("err", err.Error()))
			}
		}
	}
	return c.JSON(http.StatusOK, h.listing())
}

func (h *Handler) LoadNext(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Listing.LoadNext(ctx); err != nil {
		return h.serviceError(c, "LoadNext", err)
	}
	return c.JSON(http.StatusOK, h.listing())
}

func (h *Handler) RefreshAssets(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Listing.Reset(ctx); err != nil {
		return h.serviceError(c, "RefreshAssets", err)
	}
	return c.JSON(http.StatusOK, h.listing())
}

func (h *Handler) GetAsset(c echo.Context) error {
	if h.svc.Favorites == nil {
		return h.serviceError(c, "GetAsset", domain.ErrFavoritesDisabled)
	}
	id := strings.TrimSpace(c.Param("id"))

	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.svc.Favorites.Refresh(ctx, id)
	if err != nil {
		return h.serviceError(c, "GetAsset", err)
	}
	return c.JSON(http.StatusOK, AssetResponse{Asset: a, Favorite: h.svc.Favorites.IsFavorite(a.ID)})
}

func (h *Handler) GetMovers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Movers.Movers())
}

func (h *Handler) RefreshMovers(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Movers.Refresh(ctx); err != nil {
		return h.serviceError(c, "RefreshMovers", err)
	}
	return c.JSON(http.StatusOK, h.svc.Movers.Movers())
}

func (h *Handler) Search(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Search.Search(ctx, c.QueryParam("q")); err != nil {
		return h.serviceError(c, "Search", err)
	}
	return c.JSON(http.StatusOK, h.svc.Search.Results())
}

// GetHistory - ?range=24H|1W|1M|6M|1Y|5Y или ?interval=1m|1h|1d&start=<epoch ms>
func (h *Handler) GetHistory(c echo.Context) error {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		return h.fail(c, "GetHistory", errcode.BadRequest, nil)
	}

	start, interval, err := h.historyWindow(c)
	if err != nil {
		return h.serviceError(c, "GetHistory", err)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.History.Load(ctx, symbol, start, interval); err != nil {
		return h.serviceError(c, "GetHistory", err)
	}
	return c.JSON(http.StatusOK, h.svc.History.Series())
}

func (h *Handler) historyWindow(c echo.Context) (int64, domain.Interval, error) {
	if raw := c.QueryParam("interval"); raw != "" {
		interval, err := domain.ParseInterval(raw)
		if err != nil {
			return 0, "", err
		}
		start, err := strconv.ParseInt(c.QueryParam("start"), 10, 64)
		if err != nil {
			return 0, "", domain.ErrInvalidRange
		}
		return start, interval, nil
	}

	r, err := domain.ParseRange(c.QueryParam("range"))
	if err != nil {
		return 0, "", err
	}
	return r.Start(h.clock.Now()), r.Interval, nil
}

func (h *Handler) GetFavorites(c echo.Context) error {
	if h.svc.Favorites == nil {
		return h.serviceError(c, "GetFavorites", domain.ErrFavoritesDisabled)
	}
	return c.JSON(http.StatusOK, h.svc.Favorites.Favorites())
}

func (h *Handler) SaveFavorite(c echo.Context) error {
	if h.svc.Favorites == nil {
		return h.serviceError(c, "SaveFavorite", domain.ErrFavoritesDisabled)
	}

	var a domain.Asset
	if err := c.Bind(&a); err != nil {
		return h.fail(c, "SaveFavorite", errcode.BadRequest, err)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Favorites.Save(ctx, a); err != nil {
		return h.serviceError(c, "SaveFavorite", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteFavorite(c echo.Context) error {
	if h.svc.Favorites == nil {
		return h.serviceError(c, "DeleteFavorite", domain.ErrFavoritesDisabled)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Favorites.Delete(ctx, domain.Asset{ID: c.Param("id")}); err != nil {
		return h.serviceError(c, "DeleteFavorite", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listing() ListingResponse {
	assets := h.svc.Listing.Assets()
	return ListingResponse{
		Assets:  assets,
		Page:    h.svc.Listing.Page(),
		Total:   len(assets),
		Loading: h.svc.Listing.Loading(),
	}
}

func (h *Handler) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

func (h *Handler) serviceError(c echo.Context, op string, err error) error {
	return h.fail(c, op, FromServiceError(err), err)
}

func (h *Handler) fail(c echo.Context, op string, code errcode.Code, err error) error {
	status := StatusFor(code)
	if status >= http.StatusInternalServerError && err != nil {
		h.logger.Error("request failed",
			slog.String("op", op),
			slog.String("code", string(code)),
			slog.String("error", err.Error()),
		)
	}
	return c.JSON(status, echo.Map{
		"error": string(code),
	})
}
