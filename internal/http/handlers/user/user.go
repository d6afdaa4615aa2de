// Package user реализует обработчики личного кабинета: профиль, смену пароля
// и активные подписки пользователя.
package user

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

type Accounts interface {
	Me(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, req models.ProfileUpdateRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id int, req models.ChangePasswordRequest) error
}

type Subscriptions interface {
	ListActive(ctx context.Context, userID int) ([]models.SubscriptionDetails, error)
}

type Handler struct {
	log           *slog.Logger
	accounts      Accounts
	subscriptions Subscriptions
	validate      *validator.Validate
}

func New(log *slog.Logger, accounts Accounts, subscriptions Subscriptions) *Handler {
	return &Handler{
		log:           log,
		accounts:      accounts,
		subscriptions: subscriptions,
		validate:      request.NewValidator(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Profile godoc
// @Summary Профиль пользователя
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Router /users/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.Profile")

	id, _ := middlewarectx.IdentityFrom(r.Context())
	u, err := h.accounts.Me(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, u)
}

// UpdateProfile godoc
// @Summary Изменение профиля
// @Description Меняются только fullName и email. Занятый email даёт 409.
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ProfileUpdateRequest true "Изменяемые поля"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /users/profile [patch]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.UpdateProfile")

	var req models.ProfileUpdateRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	id, _ := middlewarectx.IdentityFrom(r.Context())

	u, err := h.accounts.UpdateProfile(r.Context(), id.UserID, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, u)
}

// ChangePassword godoc
// @Summary Смена пароля
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Текущий и новый пароль"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse "Текущий пароль неверен"
// @Router /users/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.ChangePassword")

	var req models.ChangePasswordRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	id, _ := middlewarectx.IdentityFrom(r.Context())

	if err := h.accounts.ChangePassword(r.Context(), id.UserID, req); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("Password updated successfully"))
}

// Subscriptions godoc
// @Summary Активные подписки пользователя
// @Description Подписки вместе с продуктом и планом.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.SubscriptionDetails
// @Router /users/subscriptions [get]
func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.Subscriptions")

	id, _ := middlewarectx.IdentityFrom(r.Context())
	subs, err := h.subscriptions.ListActive(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, subs)
}
