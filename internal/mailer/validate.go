package mailer

import (
	"regexp"
	"strings"
)

// emailPattern is a deliberately simple ASCII address check: local part,
// one @, a dotted domain with a TLD of at least two letters. No DNS.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether s looks like a deliverable address
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

var headerBreaks = regexp.MustCompile(`[\r\n]+`)

// SanitizeHeader collapses CR/LF runs into a single space and trims the
// result. Every value placed into a message header goes through this so
// spreadsheet content cannot inject extra header lines.
func SanitizeHeader(s string) string {
	return strings.TrimSpace(headerBreaks.ReplaceAllString(s, " "))
}

// addressSeparators splits operator-entered address lists. Full-width
// forms are folded to ASCII during sheet normalization; the ideographic
// comma survives folding and is accepted here directly.
var addressSeparators = regexp.MustCompile(`[,;，；、\r\n]+`)

// SplitAddressList splits a delimiter-separated address cell and
// validates each entry. Invalid entries are returned separately so the
// caller can report them; they never fail the whole row.
func SplitAddressList(s string) (valid, invalid []string) {
	for _, part := range addressSeparators.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if IsValidEmail(part) {
			valid = append(valid, part)
		} else {
			invalid = append(invalid, part)
		}
	}
	return valid, invalid
}
