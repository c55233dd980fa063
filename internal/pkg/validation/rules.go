package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Term codes are the registrar's four-digit strm values (e.g. 1262)
	TermCodePattern = `^\d{4}$`

	// Subject mnemonics: 2-8 letters (CS, APMA, RELB)
	SubjectPattern = `^[A-Za-z]{2,8}$`

	// Catalog numbers: 3-5 digits with an optional trailing letter
	CatalogNumberPattern = `^\d{3,5}[A-Za-z]?$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	TermCode      *regexp.Regexp
	Subject       *regexp.Regexp
	CatalogNumber *regexp.Regexp
}{
	TermCode:      regexp.MustCompile(TermCodePattern),
	Subject:       regexp.MustCompile(SubjectPattern),
	CatalogNumber: regexp.MustCompile(CatalogNumberPattern),
}

// ValidTermCode reports whether s is a well-formed term code.
func ValidTermCode(s string) bool {
	return CompiledPatterns.TermCode.MatchString(strings.TrimSpace(s))
}

// ValidSubjectCode reports whether s is a well-formed subject mnemonic.
func ValidSubjectCode(s string) bool {
	return CompiledPatterns.Subject.MatchString(strings.TrimSpace(s))
}

// ValidCatalogNumber reports whether s is a well-formed catalog number.
func ValidCatalogNumber(s string) bool {
	return CompiledPatterns.CatalogNumber.MatchString(strings.TrimSpace(s))
}

// NormalizeSubjectCode upper-cases and trims a subject mnemonic so
// lookups and fetches always use the registrar's spelling.
func NormalizeSubjectCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
