package models

import "time"

// Product программный продукт каталога.
type Product struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"shortDescription"`
	Images           []string       `json:"images"`
	Platforms        []string       `json:"platforms"`
	FirebaseConfig   map[string]any `json:"firebaseConfig,omitempty"`
	DownloadLink     *string        `json:"downloadLink,omitempty"`
	ZipPassword      *string        `json:"zipPassword,omitempty"`
	IsActive         bool           `json:"isActive"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Public возвращает копию продукта без ссылки на загрузку и пароля архива.
func (p Product) Public() Product {
	p.DownloadLink = nil
	p.ZipPassword = nil
	return p
}

// NewProduct тело запроса создания продукта.
type NewProduct struct {
	Name             string         `json:"name" validate:"required"`
	Description      string         `json:"description" validate:"required"`
	ShortDescription string         `json:"shortDescription" validate:"required"`
	Images           []string       `json:"images" validate:"required,dive,url"`
	Platforms        []string       `json:"platforms" validate:"required,dive,required"`
	FirebaseConfig   map[string]any `json:"firebaseConfig"`
	DownloadLink     *string        `json:"downloadLink" validate:"omitempty,url"`
	ZipPassword      *string        `json:"zipPassword"`
	IsActive         *bool          `json:"isActive"`
}

// ProductUpdate частичное обновление продукта.
type ProductUpdate struct {
	Name             *string        `json:"name" validate:"omitempty,min=1"`
	Description      *string        `json:"description" validate:"omitempty,min=1"`
	ShortDescription *string        `json:"shortDescription" validate:"omitempty,min=1"`
	Images           []string       `json:"images" validate:"omitempty,dive,url"`
	Platforms        []string       `json:"platforms" validate:"omitempty,dive,required"`
	FirebaseConfig   map[string]any `json:"firebaseConfig"`
	DownloadLink     *string        `json:"downloadLink" validate:"omitempty,url"`
	ZipPassword      *string        `json:"zipPassword"`
	IsActive         *bool          `json:"isActive"`
}

// ProductWithPlans продукт вместе с его тарифными планами.
type ProductWithPlans struct {
	Product Product            `json:"product"`
	Plans   []SubscriptionPlan `json:"plans"`
}
