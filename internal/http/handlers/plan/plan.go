// Package plan реализует обработчики управления тарифными планами.
// Все операции доступны только администраторам.
package plan

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/request"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type Service interface {
	CreatePlan(ctx context.Context, in models.NewPlan) (*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id int, upd models.PlanUpdate) (*models.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id int) error
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
// @Summary Создание тарифного плана
// @Tags Plans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.NewPlan true "План"
// @Success 201 {object} models.SubscriptionPlan
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Router /subscription-plans [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.Create"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req models.NewPlan
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	plan, err := h.service.CreatePlan(r.Context(), req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("plan created", slog.Int("id", plan.ID), slog.Int("product_id", plan.ProductID))
	response.JSON(w, r, http.StatusCreated, plan)
}

// Update godoc
// @Summary Изменение тарифного плана
// @Tags Plans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID плана"
// @Param request body models.PlanUpdate true "Изменяемые поля"
// @Success 200 {object} models.SubscriptionPlan
// @Failure 404 {object} response.ErrorResponse
// @Router /subscription-plans/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.Update"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	var req models.PlanUpdate
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	plan, err := h.service.UpdatePlan(r.Context(), id, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, plan)
}

// Delete godoc
// @Summary Удаление тарифного плана
// @Tags Plans
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID плана"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "План используется подписками"
// @Router /subscription-plans/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.Delete"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePlan(r.Context(), id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("Subscription plan deleted successfully"))
}
