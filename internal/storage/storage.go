// Package storage описывает контракт хранилища сущностей витрины.
// Реализации: memory (эталонная, в памяти процесса) и postgresql.
package storage

import (
	"context"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// Store объединяет операции над всеми сущностями. Реализации безопасны
// для конкурентного использования. Отсутствующая запись возвращается как
// apperr.ErrNotFound, нарушение уникальности как apperr.ErrConflict.
type Store interface {
	UserStore
	ProductStore
	PlanStore
	TransactionStore
	SubscriptionStore
	BlogStore
	EmailTemplateStore
	ContentPageStore
}

type UserStore interface {
	CreateUser(ctx context.Context, in models.NewUser) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.User, error)
	ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error)
	// DeleteProduct удаляет продукт вместе с планами. Если на продукт
	// ссылается подписка, возвращает конфликт.
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context, active *bool, page models.Page) ([]models.Product, int, error)
}

type PlanStore interface {
	CreatePlan(ctx context.Context, in models.NewPlan) (*models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id int) (*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id int, upd models.PlanUpdate) (*models.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id int) error
	PlansByProduct(ctx context.Context, productID int) ([]models.SubscriptionPlan, error)
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, in models.NewTransaction) (*models.CryptoTransaction, error)
	GetTransaction(ctx context.Context, id int) (*models.CryptoTransaction, error)
	GetTransactionByHash(ctx context.Context, txHash string) (*models.CryptoTransaction, error)
	// TransactionsByUser возвращает транзакции пользователя, новые первыми.
	TransactionsByUser(ctx context.Context, userID int) ([]models.CryptoTransaction, error)
	UpdateTransactionStatus(ctx context.Context, id int, status models.TransactionStatus, confirmedAt *time.Time) (*models.CryptoTransaction, error)
}

type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, in models.UserSubscription) (*models.UserSubscription, error)
	GetSubscription(ctx context.Context, id int) (*models.UserSubscription, error)
	UpdateSubscription(ctx context.Context, id int, upd models.SubscriptionUpdate) (*models.UserSubscription, error)
	SubscriptionsByUser(ctx context.Context, userID int) ([]models.UserSubscription, error)
	// ActiveSubscriptionsByUser пропускает подписки, у которых не найден продукт или план.
	ActiveSubscriptionsByUser(ctx context.Context, userID int) ([]models.SubscriptionDetails, error)
	SubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) ([]models.UserSubscription, error)
}

type BlogStore interface {
	CreateBlogPost(ctx context.Context, in models.NewBlogPost) (*models.BlogPost, error)
	GetBlogPost(ctx context.Context, id int) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id int, upd models.BlogPostUpdate) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id int) error
	// ListBlogPosts сортирует по дате публикации (или создания) по убыванию.
	ListBlogPosts(ctx context.Context, published *bool, page models.Page) ([]models.BlogPost, int, error)
}

type EmailTemplateStore interface {
	CreateEmailTemplate(ctx context.Context, in models.NewEmailTemplate) (*models.EmailTemplate, error)
	GetEmailTemplate(ctx context.Context, id int) (*models.EmailTemplate, error)
	GetEmailTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error)
	UpdateEmailTemplate(ctx context.Context, id int, upd models.EmailTemplateUpdate) (*models.EmailTemplate, error)
	DeleteEmailTemplate(ctx context.Context, id int) error
	ListEmailTemplates(ctx context.Context) ([]models.EmailTemplate, error)
}

type ContentPageStore interface {
	CreateContentPage(ctx context.Context, in models.NewContentPage) (*models.ContentPage, error)
	GetContentPage(ctx context.Context, id int) (*models.ContentPage, error)
	GetContentPageBySlug(ctx context.Context, slug string) (*models.ContentPage, error)
	UpdateContentPage(ctx context.Context, id int, upd models.ContentPageUpdate) (*models.ContentPage, error)
	DeleteContentPage(ctx context.Context, id int) error
	ListContentPages(ctx context.Context, published *bool) ([]models.ContentPage, error)
}

// Paginate возвращает срез элементов страницы. Страница за пределами
// выборки даёт пустой срез.
func Paginate[T any](items []T, page models.Page) []T {
	page = page.Normalize()
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
