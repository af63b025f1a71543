package domain

import "time"

// Account statuses.
const (
	AccountActive  = "active"
	AccountBlocked = "blocked"
	AccountClosed  = "closed"
)

type Account struct {
	AccountID string    `json:"id" dynamodbav:"account_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	IBAN      string    `json:"iban" dynamodbav:"iban"`
	Alias     string    `json:"alias" dynamodbav:"alias"`
	Type      string    `json:"type" dynamodbav:"type"`
	Currency  string    `json:"currency" dynamodbav:"currency"`
	// Balance is stored in minor units (cents) to avoid float drift.
	Balance   int64     `json:"balance" dynamodbav:"balance"`
	Status    string    `json:"status" dynamodbav:"status"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateAccountRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	IBAN           string `json:"iban" validate:"required"`
	Alias          string `json:"alias"`
	Type           string `json:"type" validate:"required"`
	Currency       string `json:"currency" validate:"required,len=3"`
	InitialBalance int64  `json:"initial_balance" validate:"gte=0"`
	Status         string `json:"status" validate:"omitempty,oneof=active blocked closed"`
}
