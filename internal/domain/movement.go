package domain

import "time"

// Movement is a ledger line attached to an account or a card.
// ParentID is the owning account_id or card_id; MovementID is a ULID so
// entries sort chronologically under the same parent.
type Movement struct {
	ParentID    string    `json:"-" dynamodbav:"parent_id"`
	MovementID  string    `json:"id" dynamodbav:"movement_id"`
	Date        time.Time `json:"date" dynamodbav:"date,unixtime"`
	Type        string    `json:"type" dynamodbav:"type"`
	Description string    `json:"description" dynamodbav:"description"`
	Currency    string    `json:"currency" dynamodbav:"currency"`
	Amount      int64     `json:"amount" dynamodbav:"amount"`
}

type AddMovementRequest struct {
	Date        string `json:"date" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=debit credit"`
	Description string `json:"description"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
}

type MovementFilters struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     string
	Query    string
	Page     int
	PageSize int
}
