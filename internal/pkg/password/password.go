// Package password wraps bcrypt for every short secret the API stores:
// login passwords, 6-digit OTP codes, and card PIN/CVV. Treating numeric
// secrets as short passwords keeps the at-rest handling uniform.
package password

import "golang.org/x/crypto/bcrypt"

// cost 10 keeps interactive login latency acceptable.
const cost = 10

// Hash returns the salted bcrypt digest of plain.
func Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches digest.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
