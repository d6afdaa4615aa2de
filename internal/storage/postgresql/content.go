package postgresql

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const blogColumns = `id, title, slug, content, excerpt, featured_image, author_id,
	is_published, published_at, created_at, updated_at`

const templateColumns = `id, name, subject, content, created_at, updated_at`

const pageColumns = `id, title, slug, content, is_published, created_at, updated_at`

func scanBlogPost(row scanner) (*models.BlogPost, error) {
	var p models.BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.AuthorID, &p.IsPublished, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTemplate(row scanner) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	if err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanPage(row scanner) (*models.ContentPage, error) {
	var p models.ContentPage
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) CreateBlogPost(ctx context.Context, in models.NewBlogPost) (*models.BlogPost, error) {
	const op = "storage.postgresql.CreateBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, slug, content, excerpt, featured_image, author_id,
			is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+blogColumns,
		in.Title, in.Slug, in.Content, in.Excerpt, in.FeaturedImage, in.AuthorID,
		in.IsPublished, in.PublishedAt)
	p, err := scanBlogPost(row)
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return p, nil
}

func (s *Storage) GetBlogPost(ctx context.Context, id int) (*models.BlogPost, error) {
	const op = "storage.postgresql.GetBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanBlogPost(s.DB.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "Blog post not found")
	}
	return p, nil
}

func (s *Storage) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	const op = "storage.postgresql.GetBlogPostBySlug"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanBlogPost(s.DB.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if err != nil {
		return nil, notFoundOr(op, err, "Blog post not found")
	}
	return p, nil
}

func (s *Storage) UpdateBlogPost(ctx context.Context, id int, upd models.BlogPostUpdate) (*models.BlogPost, error) {
	const op = "storage.postgresql.UpdateBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `
		UPDATE blog_posts SET
			title = COALESCE($2, title),
			slug = COALESCE($3, slug),
			content = COALESCE($4, content),
			excerpt = COALESCE($5, excerpt),
			featured_image = COALESCE($6, featured_image),
			is_published = COALESCE($7, is_published),
			published_at = CASE WHEN $9 THEN NULL ELSE COALESCE($8, published_at) END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+blogColumns,
		id, upd.Title, upd.Slug, upd.Content, upd.Excerpt, upd.FeaturedImage, upd.IsPublished,
		upd.PublishedAt, upd.ClearPublishedAt)
	p, err := scanBlogPost(row)
	if err != nil {
		return nil, notFoundOr(op, err, "Blog post not found")
	}
	return p, nil
}

func (s *Storage) DeleteBlogPost(ctx context.Context, id int) error {
	const op = "storage.postgresql.DeleteBlogPost"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOrNotFound(op, res, "Blog post not found")
}

func (s *Storage) ListBlogPosts(ctx context.Context, published *bool, page models.Page) ([]models.BlogPost, int, error) {
	const op = "storage.postgresql.ListBlogPosts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	var total int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE $1::boolean IS NULL OR is_published = $1`, published).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	page = page.Normalize()
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+blogColumns+` FROM blog_posts
		WHERE $1::boolean IS NULL OR is_published = $1
		ORDER BY COALESCE(published_at, created_at) DESC, id DESC
		LIMIT $2 OFFSET $3`,
		published, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return posts, total, nil
}

func (s *Storage) CreateEmailTemplate(ctx context.Context, in models.NewEmailTemplate) (*models.EmailTemplate, error) {
	const op = "storage.postgresql.CreateEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	t, err := scanTemplate(s.DB.QueryRowContext(ctx, `
		INSERT INTO email_templates (name, subject, content) VALUES ($1, $2, $3)
		RETURNING `+templateColumns, in.Name, in.Subject, in.Content))
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return t, nil
}

func (s *Storage) GetEmailTemplate(ctx context.Context, id int) (*models.EmailTemplate, error) {
	const op = "storage.postgresql.GetEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	t, err := scanTemplate(s.DB.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM email_templates WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "Email template not found")
	}
	return t, nil
}

func (s *Storage) GetEmailTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error) {
	const op = "storage.postgresql.GetEmailTemplateByName"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	t, err := scanTemplate(s.DB.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM email_templates WHERE name = $1`, name))
	if err != nil {
		return nil, notFoundOr(op, err, "Email template not found")
	}
	return t, nil
}

func (s *Storage) UpdateEmailTemplate(ctx context.Context, id int, upd models.EmailTemplateUpdate) (*models.EmailTemplate, error) {
	const op = "storage.postgresql.UpdateEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	t, err := scanTemplate(s.DB.QueryRowContext(ctx, `
		UPDATE email_templates SET
			name = COALESCE($2, name),
			subject = COALESCE($3, subject),
			content = COALESCE($4, content),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+templateColumns, id, upd.Name, upd.Subject, upd.Content))
	if err != nil {
		return nil, notFoundOr(op, err, "Email template not found")
	}
	return t, nil
}

func (s *Storage) DeleteEmailTemplate(ctx context.Context, id int) error {
	const op = "storage.postgresql.DeleteEmailTemplate"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOrNotFound(op, res, "Email template not found")
}

func (s *Storage) ListEmailTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	const op = "storage.postgresql.ListEmailTemplates"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+templateColumns+` FROM email_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	templates := []models.EmailTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return templates, nil
}

func (s *Storage) CreateContentPage(ctx context.Context, in models.NewContentPage) (*models.ContentPage, error) {
	const op = "storage.postgresql.CreateContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	published := in.IsPublished == nil || *in.IsPublished
	p, err := scanPage(s.DB.QueryRowContext(ctx, `
		INSERT INTO content_pages (title, slug, content, is_published) VALUES ($1, $2, $3, $4)
		RETURNING `+pageColumns, in.Title, in.Slug, in.Content, published))
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return p, nil
}

func (s *Storage) GetContentPage(ctx context.Context, id int) (*models.ContentPage, error) {
	const op = "storage.postgresql.GetContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPage(s.DB.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM content_pages WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "Content page not found")
	}
	return p, nil
}

func (s *Storage) GetContentPageBySlug(ctx context.Context, slug string) (*models.ContentPage, error) {
	const op = "storage.postgresql.GetContentPageBySlug"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPage(s.DB.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM content_pages WHERE slug = $1`, slug))
	if err != nil {
		return nil, notFoundOr(op, err, "Content page not found")
	}
	return p, nil
}

func (s *Storage) UpdateContentPage(ctx context.Context, id int, upd models.ContentPageUpdate) (*models.ContentPage, error) {
	const op = "storage.postgresql.UpdateContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPage(s.DB.QueryRowContext(ctx, `
		UPDATE content_pages SET
			title = COALESCE($2, title),
			slug = COALESCE($3, slug),
			content = COALESCE($4, content),
			is_published = COALESCE($5, is_published),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+pageColumns, id, upd.Title, upd.Slug, upd.Content, upd.IsPublished))
	if err != nil {
		return nil, notFoundOr(op, err, "Content page not found")
	}
	return p, nil
}

func (s *Storage) DeleteContentPage(ctx context.Context, id int) error {
	const op = "storage.postgresql.DeleteContentPage"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM content_pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOrNotFound(op, res, "Content page not found")
}

func (s *Storage) ListContentPages(ctx context.Context, published *bool) ([]models.ContentPage, error) {
	const op = "storage.postgresql.ListContentPages"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM content_pages
		WHERE $1::boolean IS NULL OR is_published = $1
		ORDER BY id`, published)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	pages := []models.ContentPage{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		pages = append(pages, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pages, nil
}
