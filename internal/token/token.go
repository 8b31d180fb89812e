// Package token classifies the raw text a caller hands to the YQL builder.
//
// Four token classes are recognised:
//   - identifier: a letter or underscore followed by letters, digits or underscores
//   - qualified identifier: one or more identifiers joined by '.'
//   - number: optional sign, digits with at most one '.', optional exponent
//   - quoted string: text wrapped in matching single or double quotes, where
//     the wrapping quote may only appear escaped with a backslash
//
// All predicates are pure and operate on NFC-normalized text.
package token

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in Unicode Normalization Form C.
// Visually identical identifiers must compare equal, so every token is
// normalized before it is classified or stored.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// IsIdentifier reports whether s is a plain identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsQualifiedIdentifier reports whether s is a dot-separated sequence of
// identifiers, e.g. "yahoo.finance.quotes". A plain identifier qualifies.
func IsQualifiedIdentifier(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '.' {
			continue
		}
		if !IsIdentifier(s[start:i]) {
			return false
		}
		start = i + 1
	}
	return true
}

// IsNumber reports whether s is a decimal numeric literal.
//
// Accepted forms: "42", "-7", "+3.5", "0.2", ".5", "5.", "1e10", "2.5E-3".
func IsNumber(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	dot := false
scan:
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			break scan
		}
	}

	if digits == 0 {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != 'e' && s[i] != 'E' {
		return false
	}
	i++
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	expDigits := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		expDigits++
	}
	return expDigits > 0
}

// IsQuotedString reports whether s is a single- or double-quoted string
// literal. Inside the quotes a backslash escapes the following rune.
func IsQuotedString(s string) bool {
	if len(s) < 2 {
		return false
	}
	quote := s[0]
	if quote != '\'' && quote != '"' {
		return false
	}
	if !utf8.ValidString(s) {
		return false
	}

	body := s[1:]
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			// An escape may not consume the closing quote.
			if i+1 >= len(body)-1 {
				return false
			}
			i++
		case quote:
			return i == len(body)-1
		}
	}
	return false
}
