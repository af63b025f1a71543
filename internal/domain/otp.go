package domain

// OTP purposes. Challenges are keyed by (user, purpose) so concurrent
// use-cases cannot cross-authorize each other.
const (
	PurposePasswordReset = "password_reset"
	PurposeCardDetails   = "card_details"
	// PurposeResetToken tracks the single-use nonce embedded in a
	// password-reset token, consumed through the same store path as OTPs.
	PurposeResetToken = "reset_token"
)

// OTPChallenge stores a hashed one-time code.
// PK: user_id, SK: purpose. A new Put for the same (user, purpose)
// supersedes the previous challenge. ExpiresAt doubles as the DynamoDB TTL.
type OTPChallenge struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"`
	CodeHash  string `json:"-" dynamodbav:"code_hash"`
	Consumed  bool   `json:"consumed" dynamodbav:"consumed"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
}
