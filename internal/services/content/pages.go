package content

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
)

func (s *Service) CreatePage(ctx context.Context, in models.NewContentPage) (*models.ContentPage, error) {
	const op = "content.CreatePage"
	page, err := s.store.CreateContentPage(ctx, in)
	if err != nil {
		return nil, wrap(op, err)
	}
	s.log.Info("content page created", slog.Int("id", page.ID), slog.String("slug", page.Slug))
	return page, nil
}

// GetPage возвращает страницу. Неопубликованные видны только при includeDrafts.
func (s *Service) GetPage(ctx context.Context, id int, includeDrafts bool) (*models.ContentPage, error) {
	const op = "content.GetPage"
	page, err := s.store.GetContentPage(ctx, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	if !page.IsPublished && !includeDrafts {
		return nil, apperr.NotFound("Content page not found")
	}
	return page, nil
}

func (s *Service) GetPageBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.ContentPage, error) {
	const op = "content.GetPageBySlug"
	page, err := s.store.GetContentPageBySlug(ctx, slug)
	if err != nil {
		return nil, wrap(op, err)
	}
	if !page.IsPublished && !includeDrafts {
		return nil, apperr.NotFound("Content page not found")
	}
	return page, nil
}

func (s *Service) UpdatePage(ctx context.Context, id int, upd models.ContentPageUpdate) (*models.ContentPage, error) {
	const op = "content.UpdatePage"
	page, err := s.store.UpdateContentPage(ctx, id, upd)
	if err != nil {
		return nil, wrap(op, err)
	}
	return page, nil
}

func (s *Service) DeletePage(ctx context.Context, id int) error {
	const op = "content.DeletePage"
	if err := s.store.DeleteContentPage(ctx, id); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (s *Service) ListPages(ctx context.Context, published *bool, includeDrafts bool) ([]models.ContentPage, error) {
	const op = "content.ListPages"
	if !includeDrafts {
		t := true
		published = &t
	}
	pages, err := s.store.ListContentPages(ctx, published)
	if err != nil {
		return nil, wrap(op, err)
	}
	return pages, nil
}
