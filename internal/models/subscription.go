package models

import "time"

// SubscriptionStatus статус подписки пользователя.
type SubscriptionStatus string

const (
	SubActive  SubscriptionStatus = "active"
	SubPending SubscriptionStatus = "pending"
	SubExpired SubscriptionStatus = "expired"
)

// Valid сообщает, является ли статус известным.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubActive, SubPending, SubExpired:
		return true
	}
	return false
}

// UserSubscription подписка пользователя на продукт по конкретному плану.
// EndDate вычисляется при создании из интервала плана.
type UserSubscription struct {
	ID            int                `json:"id"`
	UserID        int                `json:"userId"`
	ProductID     int                `json:"productId"`
	PlanID        int                `json:"planId"`
	TransactionID *int               `json:"transactionId"`
	StartDate     time.Time          `json:"startDate"`
	EndDate       time.Time          `json:"endDate"`
	Status        SubscriptionStatus `json:"status"`
	RenewalKey    string             `json:"renewalKey,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// SubscriptionDetails подписка вместе с продуктом и планом.
type SubscriptionDetails struct {
	UserSubscription
	Product Product          `json:"product"`
	Plan    SubscriptionPlan `json:"plan"`
}

// SubscriptionRequest тело запроса оформления подписки.
type SubscriptionRequest struct {
	ProductID     int  `json:"productId" validate:"required,gt=0"`
	PlanID        int  `json:"planId" validate:"required,gt=0"`
	TransactionID *int `json:"transactionId" validate:"omitempty,gt=0"`
}

// PaymentIntentRequest тело запроса создания платёжного намерения.
type PaymentIntentRequest struct {
	PlanID int `json:"planId" validate:"required,gt=0"`
}

// SubscriptionUpdate частичное обновление подписки.
type SubscriptionUpdate struct {
	Status  *SubscriptionStatus
	EndDate *time.Time
}
