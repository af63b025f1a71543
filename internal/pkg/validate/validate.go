// Package validate holds the shared request validator for the banking API.
package validate

import (
	"github.com/go-playground/validator/v10"
)

// v is built once at startup; register custom rules in an init before the
// first request is served.
var v = validator.New()

// Struct checks a request payload against its validate tags. Failures are
// returned as validator.ValidationErrors so the transport layer can report
// each offending field in the error envelope.
func Struct(s interface{}) error {
	return v.Struct(s)
}
