// Package auth реализует HTTP-обработчики регистрации, входа и выхода.
//
// Успешные регистрация и вход возвращают пользователя и JWT, а также
// записывают пользователя в cookie-сессию, поэтому клиент может
// аутентифицироваться любым из двух способов.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/request"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service описывает бизнес-логику учётных записей.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error)
	Me(ctx context.Context, id int) (*models.User, error)
	UpdateWallet(ctx context.Context, id int, address string) (*models.User, error)
}

// Sessions сохраняет и очищает cookie-сессию.
type Sessions interface {
	Save(w http.ResponseWriter, r *http.Request, id models.Identity) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Response тело ответа регистрации и входа.
type Response struct {
	User  *models.User `json:"user"`
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: request.NewValidator(),
	}
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, log *slog.Logger, user *models.User) {
	id := models.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
	if err := h.sessions.Save(w, r, id); err != nil {
		log.Warn("failed to save session", sl.Err(err))
	}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя с ролью user, возвращает его и JWT, открывает сессию.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Данные пользователя"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Имя или email заняты"
// @Failure 429 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Register"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req models.RegisterRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	user, token, err := h.service.Register(r.Context(), req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	h.startSession(w, r, log, user)

	log.Info("user registered", slog.Int("id", user.ID))
	response.JSON(w, r, http.StatusCreated, Response{User: user, Token: token})
}

// Login godoc
// @Summary Вход
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Учётные данные"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Login"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req models.LoginRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	user, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	h.startSession(w, r, log, user)

	log.Info("login success", slog.String("username", user.Username))
	response.JSON(w, r, http.StatusOK, Response{User: user, Token: token})
}

// Logout godoc
// @Summary Выход
// @Description Завершает cookie-сессию. JWT остаётся действительным до истечения срока.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Logout"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	if err := h.sessions.Clear(w, r); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("Logged out successfully"))
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Me"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	id, _ := middlewarectx.IdentityFrom(r.Context())
	user, err := h.service.Me(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// UpdateWallet godoc
// @Summary Привязка криптокошелька
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.WalletRequest true "Адрес кошелька"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/update-wallet [patch]
func (h *Handler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.UpdateWallet"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req models.WalletRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	id, _ := middlewarectx.IdentityFrom(r.Context())

	user, err := h.service.UpdateWallet(r.Context(), id.UserID, req.WalletAddress)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}
