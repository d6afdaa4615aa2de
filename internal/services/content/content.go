// Package content управляет блогом, статическими страницами и шаблонами писем.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

// Store хранилище контента.
type Store interface {
	storage.BlogStore
	storage.ContentPageStore
	storage.EmailTemplateStore
}

type Service struct {
	log   *slog.Logger
	store Store
	now   func() time.Time
}

// New создаёт Service.
func New(log *slog.Logger, store Store) *Service {
	return &Service{
		log:   log,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock подменяет источник времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Render подставляет значения vars вместо токенов {{key}}. Неизвестные токены остаются как есть.
func Render(text string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(text, func(token string) string {
		key := placeholder.FindStringSubmatch(token)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return token
	})
}

// RenderTemplate формирует письмо из шаблона.
func RenderTemplate(tpl models.EmailTemplate, to string, vars map[string]string) models.EmailMessage {
	return models.EmailMessage{
		To:      to,
		Subject: Render(tpl.Subject, vars),
		Body:    Render(tpl.Content, vars),
	}
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// CreateBlogPost создаёт запись от имени authorID. Опубликованная запись без
// явной даты получает текущую дату публикации.
func (s *Service) CreateBlogPost(ctx context.Context, authorID int, in models.NewBlogPost) (*models.BlogPost, error) {
	const op = "content.CreateBlogPost"
	in.AuthorID = authorID
	if in.IsPublished && in.PublishedAt == nil {
		now := s.now()
		in.PublishedAt = &now
	}
	if !in.IsPublished {
		in.PublishedAt = nil
	}
	post, err := s.store.CreateBlogPost(ctx, in)
	if err != nil {
		return nil, wrap(op, err)
	}
	s.log.Info("blog post created", slog.Int("id", post.ID), slog.String("slug", post.Slug))
	return post, nil
}

// GetBlogPost возвращает запись. Черновики видны только при includeDrafts.
func (s *Service) GetBlogPost(ctx context.Context, id int, includeDrafts bool) (*models.BlogPost, error) {
	const op = "content.GetBlogPost"
	post, err := s.store.GetBlogPost(ctx, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	if !post.IsPublished && !includeDrafts {
		return nil, apperr.NotFound("Blog post not found")
	}
	return post, nil
}

func (s *Service) GetBlogPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.BlogPost, error) {
	const op = "content.GetBlogPostBySlug"
	post, err := s.store.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, wrap(op, err)
	}
	if !post.IsPublished && !includeDrafts {
		return nil, apperr.NotFound("Blog post not found")
	}
	return post, nil
}

// UpdateBlogPost применяет частичное обновление. При первой публикации
// выставляется дата публикации, при снятии с публикации она сбрасывается.
func (s *Service) UpdateBlogPost(ctx context.Context, id int, upd models.BlogPostUpdate) (*models.BlogPost, error) {
	const op = "content.UpdateBlogPost"
	current, err := s.store.GetBlogPost(ctx, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	if upd.IsPublished != nil {
		switch {
		case *upd.IsPublished && upd.PublishedAt == nil && current.PublishedAt == nil:
			now := s.now()
			upd.PublishedAt = &now
		case !*upd.IsPublished:
			upd.PublishedAt = nil
			upd.ClearPublishedAt = true
		}
	}
	post, err := s.store.UpdateBlogPost(ctx, id, upd)
	if err != nil {
		return nil, wrap(op, err)
	}
	return post, nil
}

func (s *Service) DeleteBlogPost(ctx context.Context, id int) error {
	const op = "content.DeleteBlogPost"
	if err := s.store.DeleteBlogPost(ctx, id); err != nil {
		return wrap(op, err)
	}
	s.log.Info("blog post deleted", slog.Int("id", id))
	return nil
}

// ListBlogPosts возвращает страницу записей и общее число. Без includeDrafts
// фильтр принудительно ограничен опубликованными записями.
func (s *Service) ListBlogPosts(ctx context.Context, published *bool, page models.Page, includeDrafts bool) ([]models.BlogPost, int, error) {
	const op = "content.ListBlogPosts"
	if !includeDrafts {
		t := true
		published = &t
	}
	posts, total, err := s.store.ListBlogPosts(ctx, published, page)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	return posts, total, nil
}
