// Package transaction реализует обработчики журнала крипто-транзакций.
//
// POST с заголовком Idempotency-Key повторно возвращает уже записанную
// транзакцию того же пользователя со статусом 200 вместо конфликта 409.
package transaction

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/request"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// HeaderIdempotencyKey заголовок, включающий идемпотентную запись транзакции.
const HeaderIdempotencyKey = "Idempotency-Key"

type Service interface {
	ListForUser(ctx context.Context, userID int) ([]models.CryptoTransaction, error)
	Create(ctx context.Context, userID int, req models.TransactionRequest, idempotent bool) (*models.CryptoTransaction, bool, error)
	UpdateStatus(ctx context.Context, caller models.Identity, id int, status models.TransactionStatus, confirmedAt *time.Time) (*models.CryptoTransaction, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: request.NewValidator()}
}

// List godoc
// @Summary Транзакции текущего пользователя
// @Description Сначала самые новые.
// @Tags Crypto
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.CryptoTransaction
// @Failure 401 {object} response.ErrorResponse
// @Router /crypto-transactions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.List"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	id, _ := middlewarectx.IdentityFrom(r.Context())
	txs, err := h.service.ListForUser(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, txs)
}

// Create godoc
// @Summary Регистрация крипто-транзакции
// @Description Хэш транзакции уникален среди всех пользователей. Повтор даёт 409,
// @Description если не передан Idempotency-Key.
// @Tags Crypto
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Ключ идемпотентности"
// @Param request body models.TransactionRequest true "Транзакция"
// @Success 201 {object} models.CryptoTransaction
// @Success 200 {object} models.CryptoTransaction "Повтор с Idempotency-Key"
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /crypto-transactions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.Create"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req models.TransactionRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	id, _ := middlewarectx.IdentityFrom(r.Context())
	idempotent := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey)) != ""

	tx, created, err := h.service.Create(r.Context(), id.UserID, req, idempotent)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	if !created {
		log.Info("idempotent retry", slog.Int("id", tx.ID))
		response.JSON(w, r, http.StatusOK, tx)
		return
	}
	log.Info("transaction recorded", slog.Int("id", tx.ID), slog.String("currency", tx.Currency))
	response.JSON(w, r, http.StatusCreated, tx)
}

// UpdateStatus godoc
// @Summary Смена статуса транзакции
// @Description Доступно владельцу транзакции и администратору. Статус completed
// @Description выставляет confirmedAt (переданное значение или текущее время).
// @Tags Crypto
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID транзакции"
// @Param request body models.TransactionStatusRequest true "Новый статус"
// @Success 200 {object} models.CryptoTransaction
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /crypto-transactions/{id} [patch]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.UpdateStatus"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	txID, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	var req models.TransactionStatusRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	caller, _ := middlewarectx.IdentityFrom(r.Context())

	tx, err := h.service.UpdateStatus(r.Context(), caller, txID, req.Status, req.ConfirmedAt)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("transaction status changed", slog.Int("id", tx.ID), slog.String("status", string(tx.Status)))
	response.JSON(w, r, http.StatusOK, tx)
}
