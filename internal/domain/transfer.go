package domain

import "time"

type Transfer struct {
	TransferID    string    `json:"id" dynamodbav:"transfer_id"`
	FromAccountID string    `json:"from_account_id" dynamodbav:"from_account_id"`
	ToAccountID   string    `json:"to_account_id" dynamodbav:"to_account_id"`
	Amount        int64     `json:"amount" dynamodbav:"amount"`
	Currency      string    `json:"currency" dynamodbav:"currency"`
	Description   string    `json:"description" dynamodbav:"description"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	Status        string    `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
}

type InternalTransferRequest struct {
	FromAccountID string `json:"from_account_id" validate:"required"`
	ToAccountID   string `json:"to_account_id" validate:"required,nefield=FromAccountID"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Currency      string `json:"currency" validate:"required,len=3"`
	Description   string `json:"description"`
}

// AccountValidation is the pre-transfer IBAN check response.
type AccountValidation struct {
	Valid      bool   `json:"valid"`
	AccountID  string `json:"account_id,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
	Currency   string `json:"currency,omitempty"`
	Status     string `json:"status,omitempty"`
}
