// Package emailtemplate реализует обработчики шаблонов писем. Доступны
// только администраторам.
package emailtemplate

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
	ListTemplates(ctx context.Context) ([]models.EmailTemplate, error)
	GetTemplate(ctx context.Context, id int) (*models.EmailTemplate, error)
	CreateTemplate(ctx context.Context, in models.NewEmailTemplate) (*models.EmailTemplate, error)
	UpdateTemplate(ctx context.Context, id int, upd models.EmailTemplateUpdate) (*models.EmailTemplate, error)
	DeleteTemplate(ctx context.Context, id int) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: request.NewValidator()}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))
}

// List godoc
// @Summary Шаблоны писем
// @Tags EmailTemplates
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.EmailTemplate
// @Router /email-templates [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.emailtemplate.List")

	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, templates)
}

// Get godoc
// @Summary Шаблон письма по ID
// @Tags EmailTemplates
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID шаблона"
// @Success 200 {object} models.EmailTemplate
// @Failure 404 {object} response.ErrorResponse
// @Router /email-templates/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.emailtemplate.Get")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	tpl, err := h.service.GetTemplate(r.Context(), id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, tpl)
}

// Create godoc
// @Summary Создание шаблона письма
// @Description Плейсхолдеры в теме и тексте записываются как {{name}}.
// @Tags EmailTemplates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.NewEmailTemplate true "Шаблон"
// @Success 201 {object} models.EmailTemplate
// @Failure 409 {object} response.ErrorResponse "Имя занято"
// @Router /email-templates [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.emailtemplate.Create")

	var req models.NewEmailTemplate
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	tpl, err := h.service.CreateTemplate(r.Context(), req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, tpl)
}

// Update godoc
// @Summary Изменение шаблона письма
// @Tags EmailTemplates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID шаблона"
// @Param request body models.EmailTemplateUpdate true "Изменяемые поля"
// @Success 200 {object} models.EmailTemplate
// @Failure 404 {object} response.ErrorResponse
// @Router /email-templates/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.emailtemplate.Update")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	var req models.EmailTemplateUpdate
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	tpl, err := h.service.UpdateTemplate(r.Context(), id, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, tpl)
}

// Delete godoc
// @Summary Удаление шаблона письма
// @Tags EmailTemplates
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID шаблона"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /email-templates/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.emailtemplate.Delete")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteTemplate(r.Context(), id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("Email template deleted successfully"))
}
