package models

import "time"

// BlogPost запись блога. PublishedAt выставляется при первой публикации
// и сбрасывается при снятии с публикации.
type BlogPost struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage *string    `json:"featuredImage"`
	AuthorID      int        `json:"authorId"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// SortDate дата, по которой сортируется лента блога.
func (p BlogPost) SortDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// NewBlogPost тело запроса создания записи.
type NewBlogPost struct {
	Title         string     `json:"title" validate:"required"`
	Slug          string     `json:"slug" validate:"required,max=200"`
	Content       string     `json:"content" validate:"required"`
	Excerpt       string     `json:"excerpt" validate:"required"`
	FeaturedImage *string    `json:"featuredImage" validate:"omitempty,url"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
	AuthorID      int        `json:"-"`
}

// BlogPostUpdate частичное обновление записи.
type BlogPostUpdate struct {
	Title         *string    `json:"title" validate:"omitempty,min=1"`
	Slug          *string    `json:"slug" validate:"omitempty,min=1,max=200"`
	Content       *string    `json:"content" validate:"omitempty,min=1"`
	Excerpt       *string    `json:"excerpt" validate:"omitempty,min=1"`
	FeaturedImage *string    `json:"featuredImage" validate:"omitempty,url"`
	IsPublished   *bool      `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
	// ClearPublishedAt сбрасывает дату публикации при снятии записи с публикации.
	ClearPublishedAt bool `json:"-"`
}

// EmailTemplate шаблон письма с плейсхолдерами вида {{name}}.
type EmailTemplate struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEmailTemplate тело запроса создания шаблона.
type NewEmailTemplate struct {
	Name    string `json:"name" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// EmailTemplateUpdate частичное обновление шаблона.
type EmailTemplateUpdate struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Subject *string `json:"subject" validate:"omitempty,min=1"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// ContentPage статическая страница сайта.
type ContentPage struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewContentPage тело запроса создания страницы. По умолчанию страница опубликована.
type NewContentPage struct {
	Title       string `json:"title" validate:"required"`
	Slug        string `json:"slug" validate:"required,max=200"`
	Content     string `json:"content" validate:"required"`
	IsPublished *bool  `json:"isPublished"`
}

// ContentPageUpdate частичное обновление страницы.
type ContentPageUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Slug        *string `json:"slug" validate:"omitempty,min=1,max=200"`
	Content     *string `json:"content" validate:"omitempty,min=1"`
	IsPublished *bool   `json:"isPublished"`
}

// EmailMessage готовое к отправке письмо, передаваемое через очередь.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
