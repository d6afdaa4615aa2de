package models

import "time"

// PlanInterval период оплаты тарифного плана.
type PlanInterval string

const (
	IntervalMonth PlanInterval = "month"
	IntervalYear  PlanInterval = "year"
)

// Valid сообщает, является ли интервал поддерживаемым.
func (i PlanInterval) Valid() bool {
	return i == IntervalMonth || i == IntervalYear
}

// SubscriptionPlan тарифный план продукта. Цены хранятся в минимальных единицах валюты.
type SubscriptionPlan struct {
	ID             int          `json:"id"`
	ProductID      int          `json:"productId"`
	Name           string       `json:"name"`
	Price          int          `json:"price"`
	PriceCrypto    int          `json:"priceCrypto"`
	CryptoCurrency string       `json:"cryptoCurrency"`
	Interval       PlanInterval `json:"interval"`
	Features       []string     `json:"features"`
	IsPopular      bool         `json:"isPopular"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// NewPlan тело запроса создания плана.
type NewPlan struct {
	ProductID      int          `json:"productId" validate:"required,gt=0"`
	Name           string       `json:"name" validate:"required"`
	Price          int          `json:"price" validate:"gte=0"`
	PriceCrypto    int          `json:"priceCrypto" validate:"gte=0"`
	CryptoCurrency string       `json:"cryptoCurrency"`
	Interval       PlanInterval `json:"interval" validate:"required,oneof=month year"`
	Features       []string     `json:"features"`
	IsPopular      bool         `json:"isPopular"`
}

// PlanUpdate частичное обновление плана.
type PlanUpdate struct {
	Name           *string       `json:"name" validate:"omitempty,min=1"`
	Price          *int          `json:"price" validate:"omitempty,gte=0"`
	PriceCrypto    *int          `json:"priceCrypto" validate:"omitempty,gte=0"`
	CryptoCurrency *string       `json:"cryptoCurrency" validate:"omitempty,min=1"`
	Interval       *PlanInterval `json:"interval" validate:"omitempty,oneof=month year"`
	Features       []string      `json:"features"`
	IsPopular      *bool         `json:"isPopular"`
}

// MonthlyPrice возвращает цену плана, приведённую к одному месяцу.
func (p SubscriptionPlan) MonthlyPrice() float64 {
	if p.Interval == IntervalYear {
		return float64(p.Price) / 12
	}
	return float64(p.Price)
}
