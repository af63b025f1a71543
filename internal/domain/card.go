package domain

import "time"

type Card struct {
	CardID       string    `json:"id" dynamodbav:"card_id"`
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	Type         string    `json:"type" dynamodbav:"type"`
	MaskedNumber string    `json:"masked_number" dynamodbav:"masked_number"`
	ExpiryDate   string    `json:"expiry_date" dynamodbav:"expiry_date"` // MM/YY
	CVVHash      string    `json:"-" dynamodbav:"cvv_hash"`
	PINHash      string    `json:"-" dynamodbav:"pin_hash"`
	Currency     string    `json:"currency" dynamodbav:"currency"`
	CreditLimit  int64     `json:"credit_limit" dynamodbav:"credit_limit"`
	Balance      int64     `json:"balance" dynamodbav:"balance"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateCardRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	Type         string `json:"type" validate:"required"`
	MaskedNumber string `json:"masked_number" validate:"required"`
	ExpiryDate   string `json:"expiry_date" validate:"required"`
	CVV          string `json:"cvv" validate:"required,len=3,numeric"`
	PIN          string `json:"pin" validate:"required,len=4,numeric"`
	Currency     string `json:"currency" validate:"required,len=3"`
	CreditLimit  int64  `json:"credit_limit" validate:"gte=0"`
	Balance      int64  `json:"balance"`
}

// CardDetailsAuthorization is the response to a successful OTP step-up on
// card details. The real PIN/CVV are deliberately never sent through the
// API; the confirmation only authorizes a client-side reveal.
type CardDetailsAuthorization struct {
	CardID       string `json:"card_id"`
	MaskedNumber string `json:"masked_number"`
	Authorized   bool   `json:"authorized"`
}
