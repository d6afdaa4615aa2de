// Package subscription реализует обработчики оформления и просмотра подписок.
package subscription

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/request"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service описывает жизненный цикл подписки.
type Service interface {
	Create(ctx context.Context, userID int, req models.SubscriptionRequest) (*models.UserSubscription, error)
	List(ctx context.Context, userID int) ([]models.UserSubscription, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: request.NewValidator()}
}

// Create godoc
// @Summary Оформление подписки
// @Description Подписка активируется сразу. Дата окончания вычисляется по интервалу плана.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SubscriptionRequest true "Продукт, план и транзакция"
// @Success 201 {object} models.UserSubscription
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Чужая транзакция"
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Create"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req models.SubscriptionRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	id, _ := middlewarectx.IdentityFrom(r.Context())

	sub, err := h.service.Create(r.Context(), id.UserID, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("subscription created",
		slog.Int("id", sub.ID),
		slog.Int("product_id", sub.ProductID),
		slog.Time("end_date", sub.EndDate),
	)
	response.JSON(w, r, http.StatusCreated, sub)
}

// List godoc
// @Summary Все подписки текущего пользователя
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.UserSubscription
// @Router /subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.List"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	id, _ := middlewarectx.IdentityFrom(r.Context())
	subs, err := h.service.List(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, subs)
}
