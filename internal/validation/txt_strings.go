// TXT Content Validation
//
// Validates TXT/SPF content according to RFC 1035/7208:
// - Max 255 octets per character string, 65535 total length
// - Supports quoted ("string") and unquoted (string) formats
// - Handles backslash escaping (\") within quoted strings
// - Space/tab separates multiple strings outside quotes
// - Requires valid UTF-8 encoding
//
// Examples:
//   "v=spf1 include:_spf.google.com ~all"     (single quoted string)
//   key=value "quoted string" other=data      (mixed quoted/unquoted)
//   "unterminated                             (invalid)

package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	maxCharacterString = 255
	maxTXTLength       = 65535
)

// ValidateTXTContent checks the character-string grammar of TXT content
func ValidateTXTContent(content string) Result[string] {
	content = strings.TrimSpace(content)
	if content == "" {
		return Failure[string]("TXT content cannot be empty")
	}

	if len(content) > maxTXTLength {
		return Failuref[string]("TXT content too long: %d characters (max %d)", len(content), maxTXTLength)
	}

	if !utf8.ValidString(content) {
		return Failure[string]("TXT content contains invalid UTF-8 characters")
	}

	var current strings.Builder
	var inQuotes, escaped bool

	flush := func() bool {
		n := current.Len()
		current.Reset()
		return n <= maxCharacterString
	}

	for _, r := range content {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\':
			escaped = true
			current.WriteRune(r)
		case r == '"' && inQuotes:
			inQuotes = false
			if !flush() {
				return Failuref[string]("TXT string too long (max %d characters per string)", maxCharacterString)
			}
		case r == '"':
			if current.Len() > 0 {
				return Failure[string]("TXT content has a quote inside an unquoted string")
			}
			inQuotes = true
		case !inQuotes && (r == ' ' || r == '\t'):
			if !flush() {
				return Failuref[string]("TXT string too long (max %d characters per string)", maxCharacterString)
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuotes {
		return Failure[string]("TXT content has an unclosed quoted string")
	}
	if escaped {
		return Failure[string]("TXT content ends with a dangling escape")
	}
	if !flush() {
		return Failuref[string]("TXT string too long (max %d characters per string)", maxCharacterString)
	}

	return Success(content)
}
