package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// TaxIDTag is the validate tag for Vietnamese tax codes.
const TaxIDTag = "taxid"

// ten digits, optionally followed by a three-digit branch suffix: 0101999888 or 0101999888-001
var taxIDPattern = regexp.MustCompile(`^[0-9]{10}(-[0-9]{3})?$`)

// ValidTaxID reports whether s is a well-formed tax code. Tax codes end up in
// cache keys and glob patterns, so nothing outside digits and '-' is accepted.
func ValidTaxID(s string) bool {
	return taxIDPattern.MatchString(s)
}

// TaxIDMessage is the client-facing text for a failed TaxIDTag.
const TaxIDMessage = "%s must be a 10-digit tax code, optionally followed by -NNN"

func TaxIDValidation(fl validator.FieldLevel) bool {
	return ValidTaxID(fl.Field().String())
}

// RegisterValidations adds the domain tags to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation(TaxIDTag, TaxIDValidation)
}
