// Package identity canonicalizes phone, email and name strings so rows from
// untrusted exports can be compared with target identities.
//
// Every function is total: absent or malformed input yields "".
package identity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// excelTextRe matches the ="..." wrapper spreadsheets emit to force a cell to
// text. The quotes are optional because the CSV tokenizer strips quote
// characters before values reach this package.
var excelTextRe = regexp.MustCompile(`^\s*="?(.*?)"?\s*$`)

var lower = cases.Lower(language.Und)

// UnwrapExcelText returns inner for a value of the form ="inner" (or =inner)
// and s unchanged otherwise.
func UnwrapExcelText(s string) string {
	if m := excelTextRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}

	return s
}

// NormalizePhone keeps only the digits of s.
func NormalizePhone(s string) string {
	s = UnwrapExcelText(s)

	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// NormalizeEmail lowercases and trims s.
func NormalizeEmail(s string) string {
	return lower.String(strings.TrimSpace(UnwrapExcelText(s)))
}

// NormalizeName lowercases and trims s after NFC composition, so a decomposed
// "é" from one export compares equal to a composed one from another.
func NormalizeName(s string) string {
	s = strings.TrimSpace(UnwrapExcelText(s))
	if s == "" {
		return ""
	}

	return strings.TrimSpace(lower.String(norm.NFC.String(collapseSpace(s))))
}

// FullName prefers a single full-name field and falls back to first + " " + last.
// The result is not normalized.
func FullName(full, first, last string) string {
	if full = strings.TrimSpace(UnwrapExcelText(full)); full != "" {
		return full
	}

	first = strings.TrimSpace(UnwrapExcelText(first))
	last = strings.TrimSpace(UnwrapExcelText(last))

	return strings.TrimSpace(first + " " + last)
}

// collapseSpace folds runs of whitespace into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
