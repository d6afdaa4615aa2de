package memory

import (
	"context"
	"slices"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const (
	msgSlugInUse     = "Slug already in use"
	msgTemplateTaken = "Template name already in use"
)

func (s *Storage) CreateBlogPost(ctx context.Context, in models.NewBlogPost) (*models.BlogPost, error) {
	const op = "storage.memory.CreateBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.postBySlug(in.Slug); ok {
		return nil, apperr.Conflict(msgSlugInUse)
	}
	now := s.now()
	p := models.BlogPost{
		ID:            s.id("posts"),
		Title:         in.Title,
		Slug:          in.Slug,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		FeaturedImage: in.FeaturedImage,
		AuthorID:      in.AuthorID,
		IsPublished:   in.IsPublished,
		PublishedAt:   in.PublishedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.posts[p.ID] = p
	return &p, nil
}

func (s *Storage) GetBlogPost(ctx context.Context, id int) (*models.BlogPost, error) {
	const op = "storage.memory.GetBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFound("Blog post not found")
	}
	return &p, nil
}

func (s *Storage) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	const op = "storage.memory.GetBlogPostBySlug"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.postBySlug(slug)
	if !ok {
		return nil, apperr.NotFound("Blog post not found")
	}
	return &p, nil
}

func (s *Storage) UpdateBlogPost(ctx context.Context, id int, upd models.BlogPostUpdate) (*models.BlogPost, error) {
	const op = "storage.memory.UpdateBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFound("Blog post not found")
	}
	if upd.Slug != nil {
		if other, ok := s.postBySlug(*upd.Slug); ok && other.ID != id {
			return nil, apperr.Conflict(msgSlugInUse)
		}
		p.Slug = *upd.Slug
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Excerpt != nil {
		p.Excerpt = *upd.Excerpt
	}
	if upd.FeaturedImage != nil {
		p.FeaturedImage = upd.FeaturedImage
	}
	if upd.IsPublished != nil {
		p.IsPublished = *upd.IsPublished
	}
	switch {
	case upd.ClearPublishedAt:
		p.PublishedAt = nil
	case upd.PublishedAt != nil:
		p.PublishedAt = upd.PublishedAt
	}
	p.UpdatedAt = s.now()
	s.posts[id] = p
	return &p, nil
}

func (s *Storage) DeleteBlogPost(ctx context.Context, id int) error {
	const op = "storage.memory.DeleteBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return apperr.NotFound("Blog post not found")
	}
	delete(s.posts, id)
	return nil
}

func (s *Storage) ListBlogPosts(ctx context.Context, published *bool, page models.Page) ([]models.BlogPost, int, error) {
	const op = "storage.memory.ListBlogPosts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []models.BlogPost
	for _, p := range s.posts {
		if published != nil && p.IsPublished != *published {
			continue
		}
		filtered = append(filtered, p)
	}
	slices.SortFunc(filtered, func(a, b models.BlogPost) int {
		if c := b.SortDate().Compare(a.SortDate()); c != 0 {
			return c
		}
		return b.ID - a.ID
	})
	return storage.Paginate(filtered, page), len(filtered), nil
}

func (s *Storage) CreateEmailTemplate(ctx context.Context, in models.NewEmailTemplate) (*models.EmailTemplate, error) {
	const op = "storage.memory.CreateEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templateByName(in.Name); ok {
		return nil, apperr.Conflict(msgTemplateTaken)
	}
	now := s.now()
	t := models.EmailTemplate{
		ID:        s.id("templates"),
		Name:      in.Name,
		Subject:   in.Subject,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.templates[t.ID] = t
	return &t, nil
}

func (s *Storage) GetEmailTemplate(ctx context.Context, id int) (*models.EmailTemplate, error) {
	const op = "storage.memory.GetEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, apperr.NotFound("Email template not found")
	}
	return &t, nil
}

func (s *Storage) GetEmailTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error) {
	const op = "storage.memory.GetEmailTemplateByName"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templateByName(name)
	if !ok {
		return nil, apperr.NotFound("Email template not found")
	}
	return &t, nil
}

func (s *Storage) UpdateEmailTemplate(ctx context.Context, id int, upd models.EmailTemplateUpdate) (*models.EmailTemplate, error) {
	const op = "storage.memory.UpdateEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, apperr.NotFound("Email template not found")
	}
	if upd.Name != nil {
		if other, ok := s.templateByName(*upd.Name); ok && other.ID != id {
			return nil, apperr.Conflict(msgTemplateTaken)
		}
		t.Name = *upd.Name
	}
	if upd.Subject != nil {
		t.Subject = *upd.Subject
	}
	if upd.Content != nil {
		t.Content = *upd.Content
	}
	t.UpdatedAt = s.now()
	s.templates[id] = t
	return &t, nil
}

func (s *Storage) DeleteEmailTemplate(ctx context.Context, id int) error {
	const op = "storage.memory.DeleteEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return apperr.NotFound("Email template not found")
	}
	delete(s.templates, id)
	return nil
}

func (s *Storage) ListEmailTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	const op = "storage.memory.ListEmailTemplates"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.templates), nil
}

func (s *Storage) CreateContentPage(ctx context.Context, in models.NewContentPage) (*models.ContentPage, error) {
	const op = "storage.memory.CreateContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pageBySlug(in.Slug); ok {
		return nil, apperr.Conflict(msgSlugInUse)
	}
	now := s.now()
	p := models.ContentPage{
		ID:          s.id("pages"),
		Title:       in.Title,
		Slug:        in.Slug,
		Content:     in.Content,
		IsPublished: in.IsPublished == nil || *in.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.pages[p.ID] = p
	return &p, nil
}

func (s *Storage) GetContentPage(ctx context.Context, id int) (*models.ContentPage, error) {
	const op = "storage.memory.GetContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pages[id]
	if !ok {
		return nil, apperr.NotFound("Content page not found")
	}
	return &p, nil
}

func (s *Storage) GetContentPageBySlug(ctx context.Context, slug string) (*models.ContentPage, error) {
	const op = "storage.memory.GetContentPageBySlug"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pageBySlug(slug)
	if !ok {
		return nil, apperr.NotFound("Content page not found")
	}
	return &p, nil
}

func (s *Storage) UpdateContentPage(ctx context.Context, id int, upd models.ContentPageUpdate) (*models.ContentPage, error) {
	const op = "storage.memory.UpdateContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[id]
	if !ok {
		return nil, apperr.NotFound("Content page not found")
	}
	if upd.Slug != nil {
		if other, ok := s.pageBySlug(*upd.Slug); ok && other.ID != id {
			return nil, apperr.Conflict(msgSlugInUse)
		}
		p.Slug = *upd.Slug
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.IsPublished != nil {
		p.IsPublished = *upd.IsPublished
	}
	p.UpdatedAt = s.now()
	s.pages[id] = p
	return &p, nil
}

func (s *Storage) DeleteContentPage(ctx context.Context, id int) error {
	const op = "storage.memory.DeleteContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pages[id]; !ok {
		return apperr.NotFound("Content page not found")
	}
	delete(s.pages, id)
	return nil
}

func (s *Storage) ListContentPages(ctx context.Context, published *bool) ([]models.ContentPage, error) {
	const op = "storage.memory.ListContentPages"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ContentPage{}
	for _, p := range sortedValues(s.pages) {
		if published != nil && p.IsPublished != *published {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Storage) postBySlug(slug string) (models.BlogPost, bool) {
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return models.BlogPost{}, false
}

func (s *Storage) templateByName(name string) (models.EmailTemplate, bool) {
	for _, t := range s.templates {
		if t.Name == name {
			return t, true
		}
	}
	return models.EmailTemplate{}, false
}

func (s *Storage) pageBySlug(slug string) (models.ContentPage, bool) {
	for _, p := range s.pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return models.ContentPage{}, false
}
