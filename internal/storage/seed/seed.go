// Package seed наполняет пустое хранилище демонстрационными данными:
// пользователями, каталогом, записями блога, шаблонами писем и страницами.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const adminUsername = "admin"

type product struct {
	in    models.NewProduct
	plans []models.NewPlan
}

// Run заполняет хранилище, если в нём ещё нет пользователя admin.
func Run(ctx context.Context, log *slog.Logger, store storage.Store, cfg config.Seed) error {
	const op = "seed.Run"

	_, err := store.GetUserByUsername(ctx, adminUsername)
	if err == nil {
		log.Debug("demo data already present")
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	admin, err := seedUsers(ctx, store, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := seedCatalog(ctx, store); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := seedContent(ctx, store, admin.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("demo data seeded")
	return nil
}

func seedUsers(ctx context.Context, store storage.UserStore, cfg config.Seed) (*models.User, error) {
	adminHash, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	demoHash, err := password.GetHash(cfg.DemoPassword)
	if err != nil {
		return nil, err
	}
	admin, err := store.CreateUser(ctx, models.NewUser{
		Username:     adminUsername,
		Email:        "admin@mechxer.com",
		PasswordHash: adminHash,
		FullName:     "Admin User",
		Role:         models.RoleAdmin,
		IsVerified:   true,
	})
	if err != nil {
		return nil, err
	}
	_, err = store.CreateUser(ctx, models.NewUser{
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: demoHash,
		FullName:     "Demo User",
		Role:         models.RoleUser,
		IsVerified:   true,
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func seedCatalog(ctx context.Context, store storage.Store) error {
	for _, p := range catalog() {
		created, err := store.CreateProduct(ctx, p.in)
		if err != nil {
			return err
		}
		for _, plan := range p.plans {
			plan.ProductID = created.ID
			if _, err := store.CreatePlan(ctx, plan); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedContent(ctx context.Context, store storage.Store, authorID int) error {
	for _, post := range blogPosts() {
		post.AuthorID = authorID
		if _, err := store.CreateBlogPost(ctx, post); err != nil {
			return err
		}
	}
	for _, tpl := range emailTemplates() {
		if _, err := store.CreateEmailTemplate(ctx, tpl); err != nil {
			return err
		}
	}
	for _, page := range contentPages() {
		if _, err := store.CreateContentPage(ctx, page); err != nil {
			return err
		}
	}
	return nil
}
