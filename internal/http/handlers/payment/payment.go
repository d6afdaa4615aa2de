// Package payment реализует обработчик создания платёжного намерения.
package payment

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

type Service interface {
	CreateIntent(ctx context.Context, userID, planID int) (string, error)
}

// IntentResponse секрет намерения для клиентской части платёжного шлюза.
type IntentResponse struct {
	ClientSecret string `json:"clientSecret" example:"pi_123_secret_456"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: request.NewValidator()}
}

// ServeHTTP godoc
// @Summary Создание платёжного намерения
// @Description Создаёт намерение на сумму цены плана. Без настроенного ключа шлюза отвечает 503.
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.PaymentIntentRequest true "План"
// @Success 200 {object} IntentResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /create-payment-intent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.CreateIntent"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req models.PaymentIntentRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	id, _ := middlewarectx.IdentityFrom(r.Context())

	secret, err := h.service.CreateIntent(r.Context(), id.UserID, req.PlanID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, IntentResponse{ClientSecret: secret})
}
