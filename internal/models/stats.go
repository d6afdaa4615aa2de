package models

import "math"

// Stats агрегированные показатели для панели администратора.
type Stats struct {
	TotalUsers          int            `json:"totalUsers"`
	TotalProducts       int            `json:"totalProducts"`
	ActiveSubscriptions int            `json:"activeSubscriptions"`
	MonthlyRevenue      float64        `json:"monthlyRevenue"`
	TopProducts         []ProductStats `json:"topProducts"`
}

// ProductStats показатели одного продукта.
type ProductStats struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Subscriptions  int     `json:"subscriptions"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
}

// Page параметры постраничной выборки.
type Page struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage номер страницы, при котором Offset ещё не переполняет int.
	MaxPage = math.MaxInt / MaxPageSize
)

// Normalize приводит параметры к допустимым значениям.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

// Offset смещение первой записи страницы.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}
