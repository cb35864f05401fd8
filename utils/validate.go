package utils

import (
	"net/mail"
	"strings"
)

// Accepted gender values. The original dataset uses Spanish labels.
const (
	GenderMale   = "Masculino"
	GenderFemale = "Femenino"
)

// Symbols allowed (and one required) in passwords.
const passwordSymbols = "@$!%*#?&"

// ValidEmail reports whether s is a syntactically valid address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	// Reject the "Name <addr>" form; only the bare address is acceptable.
	return err == nil && addr.Address == s
}

// ValidGender reports whether s is one of the two accepted values.
func ValidGender(s string) bool {
	return s == GenderMale || s == GenderFemale
}

// ValidPassword enforces the password strength rule: at least 10
// characters, at least one letter, one digit and one symbol from
// @$!%*#?&, with nothing outside that alphabet.
func ValidPassword(s string) bool {
	if len(s) < 10 {
		return false
	}
	var letter, digit, symbol bool
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return letter && digit && symbol
}
