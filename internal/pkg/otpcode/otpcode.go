package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// New generates a uniformly random 6-digit decimal code in
// [100000, 999999] inclusive.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
