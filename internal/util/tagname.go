// Package util provides common utility functions.
package util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTagNameLength is the longest canonical tag name, in runes.
const MaxTagNameLength = 64

// NormalizeTagName converts user input to the canonical tag name. The
// canonical name is the identity of a tag: two inputs that normalise to the
// same string refer to the same tag.
//
// Normalization rules:
//  1. NFKC fold (full-width and compatibility forms become plain text)
//  2. Trim surrounding whitespace
//  3. Collapse inner whitespace runs to a single space
//  4. Lowercase
//
// Names longer than MaxTagNameLength are returned whole; callers reject them
// with TagNameTooLong so two long names never collapse into one tag.
//
// Examples:
//
//	"Action"        → "action"
//	"action "       → "action"
//	"  Slice  of\tLife" → "slice of life"
//	"ＡＮＩＭＥ"     → "anime"
func NormalizeTagName(input string) string {
	s := norm.NFKC.String(input)

	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// TagNameTooLong reports whether a canonical name exceeds MaxTagNameLength.
func TagNameTooLong(name string) bool {
	return utf8.RuneCountInString(name) > MaxTagNameLength
}
