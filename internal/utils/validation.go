package utils

import (
	"strings"
	"unicode"
)

const (
	countryCode      = "91"
	subscriberDigits = 10
)

// NormalizeContact keeps only the digits of a phone number and drops an
// Indian country code or trunk 0 in front of a ten digit number, so
// "+91 98765-43210", "098765 43210" and "9876543210" compare equal.
func NormalizeContact(contact string) string {
	var b strings.Builder
	b.Grow(len(contact))
	for _, r := range contact {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == len(countryCode)+subscriberDigits && strings.HasPrefix(digits, countryCode):
		return digits[len(countryCode):]
	case len(digits) == 1+subscriberDigits && digits[0] == '0':
		return digits[1:]
	}
	return digits
}

// NormalizeEmail trims and lower-cases an address. Emails are compared case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CollapseSpaces trims a free-text form value and squeezes runs of whitespace.
func CollapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
