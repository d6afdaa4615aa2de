package models

import "time"

// TransactionStatus статус крипто-транзакции.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Valid сообщает, является ли статус известным.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxCompleted, TxFailed:
		return true
	}
	return false
}

// CryptoTransaction заявленный пользователем платёж в блокчейне.
// TxHash уникален среди всех пользователей.
type CryptoTransaction struct {
	ID          int               `json:"id"`
	UserID      int               `json:"userId"`
	Amount      int               `json:"amount"`
	Currency    string            `json:"currency"`
	TxHash      string            `json:"txHash"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	ConfirmedAt *time.Time        `json:"confirmedAt"`
}

// NewTransaction данные для записи транзакции в хранилище.
type NewTransaction struct {
	UserID   int
	Amount   int
	Currency string
	TxHash   string
	Status   TransactionStatus
}

// TransactionRequest тело запроса регистрации транзакции.
type TransactionRequest struct {
	TxHash   string            `json:"txHash" validate:"required"`
	Amount   int               `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency" validate:"required"`
	Status   TransactionStatus `json:"status" validate:"omitempty,oneof=pending completed failed"`
}

// TransactionStatusRequest тело запроса смены статуса транзакции.
// ConfirmedAt учитывается только для статуса completed.
type TransactionStatusRequest struct {
	Status      TransactionStatus `json:"status" validate:"required"`
	ConfirmedAt *time.Time        `json:"confirmedAt"`
}
