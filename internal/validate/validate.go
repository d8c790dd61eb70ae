// Package validate checks decoded request structs and collects every
// problem into an itemized list instead of stopping at the first one.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldError is one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is returned when one or more fields are invalid.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator accumulates field errors.
type Validator struct {
	errs Errors
}

// Add records a failure for field.
func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// Length checks the rune count of value is within [min, max]. Control
// characters are rejected outright.
func (v *Validator) Length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	switch {
	case strings.IndexFunc(value, unicode.IsControl) >= 0:
		v.Add(field, "must not contain control characters")
	case n < min:
		v.Add(field, fmt.Sprintf("must be at least %d characters", min))
	case n > max:
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// MaxLength checks the rune count of value does not exceed max. Line breaks
// and tabs are allowed, other control characters are not.
func (v *Validator) MaxLength(field, value string, max int) {
	switch {
	case strings.IndexFunc(value, isDisallowedControl) >= 0:
		v.Add(field, "must not contain control characters")
	case utf8.RuneCountInString(value) > max:
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func isDisallowedControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t'
}

// Email checks value is a bare address like "alice@example.com".
func (v *Validator) Email(field, value string, max int) {
	if value == "" {
		v.Add(field, "is required")
		return
	}
	if utf8.RuneCountInString(value) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
		return
	}
	if !IsEmail(value) {
		v.Add(field, "must be a valid email address")
	}
}

// Err returns nil when nothing failed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

// IsEmail reports whether s parses as a bare address with a dotted domain.
// Display-name forms ("Alice <a@x.com>") are rejected.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
