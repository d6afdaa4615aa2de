package storefront

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация OpenAPI-описания для swagger UI.
	_ "github.com/magabrotheeeer/storefront/docs"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/blog"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/emailtemplate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/health"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/page"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/payment"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/plan"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/product"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/subscription"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/transaction"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/user"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
	)

	authn := middlewarectx.NewAuthenticator(logger, svc.Tokens, svc.Sessions, svc.Users)
	limiter := middlewarectx.NewRateLimiter(logger, cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	authHandler := auth.New(logger, svc.Auth, svc.Sessions)
	userHandler := user.New(logger, svc.Auth, svc.Subscriptions)
	productHandler := product.New(logger, svc.Catalog)
	planHandler := plan.New(logger, svc.Catalog)
	txHandler := transaction.New(logger, svc.Ledger)
	subHandler := subscription.New(logger, svc.Subscriptions)
	paymentHandler := payment.New(logger, svc.Payments)
	blogHandler := blog.New(logger, svc.Content)
	pageHandler := page.New(logger, svc.Content)
	templateHandler := emailtemplate.New(logger, svc.Content)
	adminHandler := admin.New(logger, svc.Stats, svc.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.New(logger, svc.Pinger).ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/register", authHandler.Register)
			r.With(limiter.Middleware).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(authn.Required).Get("/me", authHandler.Me)
			r.With(authn.Required).Patch("/update-wallet", authHandler.UpdateWallet)
		})

		// Публичное чтение. Администратор дополнительно видит скрытые поля и черновики.
		r.Group(func(r chi.Router) {
			r.Use(authn.Optional)
			r.Get("/products", productHandler.List)
			r.Get("/products/{id}", productHandler.Get)
			r.Get("/products/{id}/plans", productHandler.Plans)
			r.Get("/blog-posts", blogHandler.List)
			r.Get("/blog-posts/slug/{slug}", blogHandler.GetBySlug)
			r.Get("/blog-posts/{id}", blogHandler.Get)
			r.Get("/content-pages", pageHandler.List)
			r.Get("/content-pages/slug/{slug}", pageHandler.GetBySlug)
			r.Get("/content-pages/{id}", pageHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Required)
			r.Get("/users/profile", userHandler.Profile)
			r.Patch("/users/profile", userHandler.UpdateProfile)
			r.Post("/users/change-password", userHandler.ChangePassword)
			r.Get("/users/subscriptions", userHandler.Subscriptions)

			r.Get("/crypto-transactions", txHandler.List)
			r.Post("/crypto-transactions", txHandler.Create)
			r.Patch("/crypto-transactions/{id}", txHandler.UpdateStatus)

			r.Get("/subscriptions", subHandler.List)
			r.Post("/subscriptions", subHandler.Create)

			r.Post("/create-payment-intent", paymentHandler.ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Required, middlewarectx.RequireAdmin)
			r.Post("/products", productHandler.Create)
			r.Patch("/products/{id}", productHandler.Update)
			r.Delete("/products/{id}", productHandler.Delete)

			r.Post("/subscription-plans", planHandler.Create)
			r.Patch("/subscription-plans/{id}", planHandler.Update)
			r.Delete("/subscription-plans/{id}", planHandler.Delete)

			r.Post("/blog-posts", blogHandler.Create)
			r.Patch("/blog-posts/{id}", blogHandler.Update)
			r.Delete("/blog-posts/{id}", blogHandler.Delete)

			r.Post("/content-pages", pageHandler.Create)
			r.Patch("/content-pages/{id}", pageHandler.Update)
			r.Delete("/content-pages/{id}", pageHandler.Delete)

			r.Get("/email-templates", templateHandler.List)
			r.Get("/email-templates/{id}", templateHandler.Get)
			r.Post("/email-templates", templateHandler.Create)
			r.Patch("/email-templates/{id}", templateHandler.Update)
			r.Delete("/email-templates/{id}", templateHandler.Delete)

			r.Get("/admin/stats", adminHandler.Stats)
			r.Get("/admin/users", adminHandler.Users)
			r.Patch("/admin/users/{id}/role", adminHandler.SetRole)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
