// Package id mints the identifiers used across users, accounts, cards,
// transfers and audit entries.
package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID string. ULID order follows creation time, which
// keeps key-ordered Dynamo queries in chronological order without a separate
// timestamp attribute.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
