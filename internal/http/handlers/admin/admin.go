// Package admin реализует обработчики панели администратора: сводную
// статистику и управление пользователями.
package admin

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

type Stats interface {
	Compute(ctx context.Context) (*models.Stats, error)
}

type Users interface {
	ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error)
	SetRole(ctx context.Context, id int, role models.Role) (*models.User, error)
}

// UsersResponse страница списка пользователей.
type UsersResponse struct {
	Users    []models.User `json:"users"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

type Handler struct {
	log      *slog.Logger
	stats    Stats
	users    Users
	validate *validator.Validate
}

func New(log *slog.Logger, stats Stats, users Users) *Handler {
	return &Handler{log: log, stats: stats, users: users, validate: request.NewValidator()}
}

// Stats godoc
// @Summary Сводная статистика
// @Description Пользователи, продукты, активные подписки, месячная выручка и топ-3 продуктов.
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.Stats"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	stats, err := h.stats.Compute(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, stats)
}

// Users godoc
// @Summary Список пользователей
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Номер страницы"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} UsersResponse
// @Router /admin/users [get]
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.Users"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	page := request.Page(r)
	users, total, err := h.users.ListUsers(r.Context(), page)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, UsersResponse{
		Users:    users,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// SetRole godoc
// @Summary Смена роли пользователя
// @Description Новая роль попадает в токены, выпущенные после смены.
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param request body models.RoleRequest true "Роль"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/users/{id}/role [patch]
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.SetRole"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	var req models.RoleRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	user, err := h.users.SetRole(r.Context(), id, req.Role)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("role changed", slog.Int("user_id", id), slog.String("role", string(req.Role)))
	response.JSON(w, r, http.StatusOK, user)
}
