// Hostname Validation
//
// Validates DNS names according to RFC 1034/1035/1123:
// - Total length: configurable, 255 octets by default
// - Label length: 1-63 octets
// - Valid characters: a-z, A-Z, 0-9, hyphens (not at label start/end)
// - Owner names may start with a "*" wildcard label and may use a leading
//   underscore on labels (_sip._tcp, _dmarc)
// - Target names allow neither, but "." (the root) is accepted
// - Unicode labels are converted to A-labels when IDN support is enabled
//
// Examples (owner mode):
//   *.example.com          (valid wildcard)
//   _sip._tcp.example.com  (valid service name)
//   www.*.example.com      (invalid - wildcard not first)
//
// Examples (target mode):
//   mail.example.com.      (valid, normalized to mail.example.com)
//   .                      (valid root)
//   *.example.com          (invalid)

package validation

import (
	"strings"

	"golang.org/x/net/idna"
)

const (
	maxLabelLength        = 63
	defaultHostnameLength = 255
)

// HostnameValidator checks owner names and target names
type HostnameValidator struct {
	maxLength int
	lowercase bool
	allowIDN  bool
}

// NewHostnameValidator creates a validator. maxLength <= 0 selects the
// RFC 1035 limit of 255 octets.
func NewHostnameValidator(maxLength int, lowercase, allowIDN bool) *HostnameValidator {
	if maxLength <= 0 {
		maxLength = defaultHostnameLength
	}
	return &HostnameValidator{
		maxLength: maxLength,
		lowercase: lowercase,
		allowIDN:  allowIDN,
	}
}

// Validate checks host as an owner name (owner == true) or as a target
// value, returning the normalized hostname.
func (v *HostnameValidator) Validate(host string, owner bool) Result[string] {
	host = strings.TrimSpace(host)
	if host == "" {
		return Failure[string]("hostname cannot be empty")
	}

	if host == "." {
		if owner {
			return Failure[string]("the root name cannot be used as an owner name")
		}
		return Success(".")
	}

	host = strings.TrimSuffix(host, ".")
	if host == "" || strings.HasPrefix(host, ".") || strings.Contains(host, "..") {
		return Failuref[string]("hostname %q contains an empty label", host)
	}

	labels := strings.Split(host, ".")

	if v.allowIDN {
		for i, label := range labels {
			if isASCII(label) {
				continue
			}
			ascii, err := idna.Lookup.ToASCII(label)
			if err != nil {
				return Failuref[string]("hostname label %q is not a valid internationalized label", label)
			}
			labels[i] = ascii
		}
		host = strings.Join(labels, ".")
	}

	if v.lowercase {
		host = strings.ToLower(host)
		for i := range labels {
			labels[i] = strings.ToLower(labels[i])
		}
	}

	if len(host) > v.maxLength {
		return Failuref[string]("hostname is too long: %d characters (maximum %d)", len(host), v.maxLength)
	}

	for i, label := range labels {
		if label == "*" {
			if owner && i == 0 {
				continue
			}
			if owner {
				return Failuref[string]("wildcard is only allowed as the first label: %s", host)
			}
			return Failuref[string]("wildcard is not allowed in a target name: %s", host)
		}

		if msg := checkLabel(label, owner); msg != "" {
			return Failuref[string]("invalid label %q in %s: %s", label, host, msg)
		}
	}

	return Success(host)
}

// Normalize converts name to the form Validate would return, without the
// grammar checks: trimmed, no trailing dot, A-labels when IDN is enabled,
// lower-cased per policy. Labels that fail IDN conversion are kept as
// given so the later grammar check reports them.
func (v *HostnameValidator) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "." {
		return name
	}
	name = strings.TrimSuffix(name, ".")

	if v.allowIDN && !isASCII(name) {
		labels := strings.Split(name, ".")
		for i, label := range labels {
			if isASCII(label) {
				continue
			}
			if ascii, err := idna.Lookup.ToASCII(label); err == nil {
				labels[i] = ascii
			}
		}
		name = strings.Join(labels, ".")
	}

	if v.lowercase {
		name = strings.ToLower(name)
	}
	return name
}

// checkLabel returns a rejection reason or "" when the label is valid
func checkLabel(label string, owner bool) string {
	if len(label) == 0 || len(label) > maxLabelLength {
		return "label must be 1-63 characters"
	}

	body := label
	if owner && body[0] == '_' {
		body = body[1:]
		if body == "" {
			return "underscore label must have a name"
		}
	}

	if body[0] == '-' || body[len(body)-1] == '-' {
		return "label cannot start or end with hyphen"
	}

	for _, r := range body {
		if !isLetter(r) && !isDigit(r) && r != '-' {
			return "invalid character '" + string(r) + "'"
		}
	}

	return ""
}

// ValidateTargetFQDN is a syntactic plausibility check for alias and
// exchange targets: the root "." passes, anything else needs at least two
// labels and a final label of two or more letters. It is deliberately
// not a lookup against the list of delegated TLDs.
func ValidateTargetFQDN(target string) Result[string] {
	target = strings.TrimSpace(target)
	if target == "." {
		return Success(target)
	}

	name := strings.TrimSuffix(target, ".")
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return Failuref[string]("target %q is not fully qualified: at least two labels are required", target)
	}

	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return Failuref[string]("target %q has a top-level label shorter than 2 characters", target)
	}
	for _, r := range tld {
		if !isLetter(r) {
			return Failuref[string]("target %q has a top-level label that is not alphabetic", target)
		}
	}

	return Success(name)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
