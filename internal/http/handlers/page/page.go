// Package page реализует обработчики статических страниц сайта.
package page

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/request"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type Service interface {
	ListPages(ctx context.Context, published *bool, includeDrafts bool) ([]models.ContentPage, error)
	GetPage(ctx context.Context, id int, includeDrafts bool) (*models.ContentPage, error)
	GetPageBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.ContentPage, error)
	CreatePage(ctx context.Context, in models.NewContentPage) (*models.ContentPage, error)
	UpdatePage(ctx context.Context, id int, upd models.ContentPageUpdate) (*models.ContentPage, error)
	DeletePage(ctx context.Context, id int) error
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

func isAdmin(r *http.Request) bool {
	id, ok := middlewarectx.IdentityFrom(r.Context())
	return ok && id.IsAdmin()
}

// List godoc
// @Summary Список страниц
// @Tags Pages
// @Produce json
// @Param published query bool false "Фильтр по публикации"
// @Success 200 {array} models.ContentPage
// @Router /content-pages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.page.List")

	published, ok := request.Bool(w, r, "published")
	if !ok {
		return
	}
	pages, err := h.service.ListPages(r.Context(), published, isAdmin(r))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, pages)
}

// Get godoc
// @Summary Страница по ID
// @Tags Pages
// @Produce json
// @Param id path int true "ID страницы"
// @Success 200 {object} models.ContentPage
// @Failure 404 {object} response.ErrorResponse
// @Router /content-pages/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.page.Get")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.service.GetPage(r.Context(), id, isAdmin(r))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, p)
}

// GetBySlug godoc
// @Summary Страница по slug
// @Tags Pages
// @Produce json
// @Param slug path string true "Slug страницы"
// @Success 200 {object} models.ContentPage
// @Failure 404 {object} response.ErrorResponse
// @Router /content-pages/slug/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.page.GetBySlug")

	p, err := h.service.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"), isAdmin(r))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, p)
}

// Create godoc
// @Summary Создание страницы
// @Tags Pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.NewContentPage true "Страница"
// @Success 201 {object} models.ContentPage
// @Failure 409 {object} response.ErrorResponse
// @Router /content-pages [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.page.Create")

	var req models.NewContentPage
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	p, err := h.service.CreatePage(r.Context(), req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, p)
}

// Update godoc
// @Summary Изменение страницы
// @Tags Pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID страницы"
// @Param request body models.ContentPageUpdate true "Изменяемые поля"
// @Success 200 {object} models.ContentPage
// @Failure 404 {object} response.ErrorResponse
// @Router /content-pages/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.page.Update")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	var req models.ContentPageUpdate
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	p, err := h.service.UpdatePage(r.Context(), id, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, p)
}

// Delete godoc
// @Summary Удаление страницы
// @Tags Pages
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID страницы"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /content-pages/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.page.Delete")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePage(r.Context(), id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("Content page deleted successfully"))
}
