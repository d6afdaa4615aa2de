// Package blog реализует обработчики блога. Черновики видят только администраторы.
package blog

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
	ListBlogPosts(ctx context.Context, published *bool, page models.Page, includeDrafts bool) ([]models.BlogPost, int, error)
	GetBlogPost(ctx context.Context, id int, includeDrafts bool) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.BlogPost, error)
	CreateBlogPost(ctx context.Context, authorID int, in models.NewBlogPost) (*models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id int, upd models.BlogPostUpdate) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id int) error
}

// ListResponse страница ленты блога.
type ListResponse struct {
	Posts    []models.BlogPost `json:"posts"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
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

func caller(r *http.Request) (models.Identity, bool) {
	id, ok := middlewarectx.IdentityFrom(r.Context())
	return id, ok && id.IsAdmin()
}

// List godoc
// @Summary Лента блога
// @Description Сначала новые. Для не-администраторов фильтр published игнорируется.
// @Tags Blog
// @Produce json
// @Param page query int false "Номер страницы"
// @Param pageSize query int false "Размер страницы"
// @Param published query bool false "Фильтр по публикации"
// @Success 200 {object} ListResponse
// @Router /blog-posts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.blog.List")

	published, ok := request.Bool(w, r, "published")
	if !ok {
		return
	}
	_, admin := caller(r)
	page := request.Page(r)

	posts, total, err := h.service.ListBlogPosts(r.Context(), published, page, admin)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, ListResponse{Posts: posts, Total: total, Page: page.Page, PageSize: page.PageSize})
}

// Get godoc
// @Summary Запись блога по ID
// @Tags Blog
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} response.ErrorResponse
// @Router /blog-posts/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.blog.Get")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	_, admin := caller(r)
	post, err := h.service.GetBlogPost(r.Context(), id, admin)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, post)
}

// GetBySlug godoc
// @Summary Запись блога по slug
// @Tags Blog
// @Produce json
// @Param slug path string true "Slug записи"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} response.ErrorResponse
// @Router /blog-posts/slug/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.blog.GetBySlug")

	_, admin := caller(r)
	post, err := h.service.GetBlogPostBySlug(r.Context(), chi.URLParam(r, "slug"), admin)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, post)
}

// Create godoc
// @Summary Создание записи блога
// @Description Автором записи становится текущий администратор.
// @Tags Blog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.NewBlogPost true "Запись"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Slug занят"
// @Router /blog-posts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.blog.Create")

	var req models.NewBlogPost
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	author, _ := caller(r)
	post, err := h.service.CreateBlogPost(r.Context(), author.UserID, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("blog post created", slog.Int("id", post.ID), slog.String("slug", post.Slug))
	response.JSON(w, r, http.StatusCreated, post)
}

// Update godoc
// @Summary Изменение записи блога
// @Tags Blog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param request body models.BlogPostUpdate true "Изменяемые поля"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} response.ErrorResponse
// @Router /blog-posts/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.blog.Update")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	var req models.BlogPostUpdate
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	post, err := h.service.UpdateBlogPost(r.Context(), id, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, post)
}

// Delete godoc
// @Summary Удаление записи блога
// @Tags Blog
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /blog-posts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.blog.Delete")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBlogPost(r.Context(), id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("Blog post deleted successfully"))
}
