// Package health отвечает на проверку доступности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response тело ответа проверки.
type Response struct {
	Status string `json:"status" example:"ok"`
}

type Handler struct {
	log     *slog.Logger
	storage Pinger
}

// New создаёт Handler. storage может быть nil, тогда проверяется только процесс.
func New(log *slog.Logger, storage Pinger) *Handler {
	return &Handler{log: log, storage: storage}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Service
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			h.log.Error("storage is unavailable",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)
			response.JSON(w, r, http.StatusServiceUnavailable, Response{Status: "unavailable"})
			return
		}
	}
	response.JSON(w, r, http.StatusOK, Response{Status: "ok"})
}
