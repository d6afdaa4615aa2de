// Package product реализует HTTP-обработчики каталога продуктов.
//
// Чтение каталога доступно всем. Ссылка на загрузку и пароль архива
// отдаются только администраторам, остальные получают Product.Public().
package product

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

// Service описывает операции каталога, нужные обработчикам.
type Service interface {
	ListProducts(ctx context.Context, active *bool, page models.Page) ([]models.Product, int, error)
	GetProductWithPlans(ctx context.Context, id int) (*models.ProductWithPlans, error)
	PlansByProduct(ctx context.Context, productID int) ([]models.SubscriptionPlan, error)
	CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

// ListResponse страница каталога. Total считается до пагинации.
type ListResponse struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total" example:"3"`
	Page     int              `json:"page" example:"1"`
	PageSize int              `json:"pageSize" example:"10"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func isAdmin(r *http.Request) bool {
	id, ok := middlewarectx.IdentityFrom(r.Context())
	return ok && id.IsAdmin()
}

// List godoc
// @Summary Список продуктов
// @Description Постраничный список продуктов. active=true оставляет только активные.
// @Tags Products
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param pageSize query int false "Размер страницы" default(10)
// @Param active query bool false "Только активные"
// @Success 200 {object} ListResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.product.List")

	active, ok := request.Bool(w, r, "active")
	if !ok {
		return
	}
	page := request.Page(r)

	products, total, err := h.service.ListProducts(r.Context(), active, page)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	if !isAdmin(r) {
		for i := range products {
			products[i] = products[i].Public()
		}
	}
	response.JSON(w, r, http.StatusOK, ListResponse{
		Products: products,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Get godoc
// @Summary Продукт с тарифными планами
// @Tags Products
// @Produce json
// @Param id path int true "ID продукта"
// @Success 200 {object} models.ProductWithPlans
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.product.Get")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.service.GetProductWithPlans(r.Context(), id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	out := *res
	if !isAdmin(r) {
		out.Product = out.Product.Public()
	}
	response.JSON(w, r, http.StatusOK, out)
}

// Plans godoc
// @Summary Тарифные планы продукта
// @Tags Products
// @Produce json
// @Param id path int true "ID продукта"
// @Success 200 {array} models.SubscriptionPlan
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id}/plans [get]
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.product.Plans")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	plans, err := h.service.PlansByProduct(r.Context(), id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, plans)
}

// Create godoc
// @Summary Создание продукта
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.NewProduct true "Продукт"
// @Success 201 {object} models.Product
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.product.Create")

	var req models.NewProduct
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("product created", slog.Int("id", product.ID))
	response.JSON(w, r, http.StatusCreated, product)
}

// Update godoc
// @Summary Изменение продукта
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID продукта"
// @Param request body models.ProductUpdate true "Изменяемые поля"
// @Success 200 {object} models.Product
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.product.Update")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	var req models.ProductUpdate
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, product)
}

// Delete godoc
// @Summary Удаление продукта
// @Description Продукт с подписками удалить нельзя, ответ 409.
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID продукта"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /products/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.product.Delete")

	id, ok := request.ID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("product deleted", slog.Int("id", id))
	response.JSON(w, r, http.StatusOK, response.Message("Product deleted successfully"))
}
