// CAA Record Validation
//
// Validates DNS CAA records according to RFC 8659 standards:
// - Content format: "flag tag value"
// - Flag must be 0 (non-critical) or 128 (critical)
// - Tag must be one of: issue, issuewild, iodef
// - Value format depends on tag type:
//   - issue/issuewild: CA domain name, optionally followed by "; key=value"
//     parameters, or ";" (deny all)
//   - iodef: mailto: URL or https: URL
//
// - Tag names are case-insensitive but stored lowercase
// - Value may be quoted and cannot be empty
//
// Examples:
//   0 issue "letsencrypt.org"                 (valid)
//   0 iodef "mailto:admin@example.com"        (valid)
//   128 issue ";"                             (valid - deny all)
//   0 invalid "test"                          (invalid tag)
//   255 issue "ca.com"                        (invalid flag)

package validation

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"rrguard.io/internal/models"
)

var (
	caaTags = map[string]bool{
		"issue":     true,
		"issuewild": true,
		"iodef":     true,
	}

	// not RFC 5322 compliant but good enough for CAA
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// CAAValidator validates CAA candidates
type CAAValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *CAAValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	content := v.content(c.Content)
	if !content.IsValid() {
		return fail[models.ValidatedRecord](content), nil
	}

	return v.complete(ctx, c, owner.Data(), content.Data(), NoPriority)
}

func (v *CAAValidator) content(content string) Result[string] {
	parts := strings.Fields(content)
	if len(parts) < 3 {
		return Failure[string]("CAA record content must be: flag tag value")
	}

	flag := parts[0]
	if flag != "0" && flag != "128" {
		return Failuref[string]("CAA record flag must be 0 (non-critical) or 128 (critical), got: %s", flag)
	}

	tag := strings.ToLower(parts[1])
	if !caaTags[tag] {
		return Failuref[string]("CAA record tag must be 'issue', 'issuewild', or 'iodef', got: %s", parts[1])
	}

	// the value is everything after the tag and may itself contain spaces
	raw := strings.TrimSpace(content)
	raw = strings.TrimSpace(raw[strings.Index(raw, parts[1])+len(parts[1]):])
	value := strings.TrimSpace(strings.Trim(raw, `"`))
	if value == "" {
		return Failure[string]("CAA record value cannot be empty")
	}

	var r Result[string]
	switch tag {
	case "issue", "issuewild":
		r = v.issueValue(value)
	case "iodef":
		r = v.iodefValue(value)
	}
	if !r.IsValid() {
		return r
	}

	return Success(fmt.Sprintf("%s %s %q", flag, tag, value))
}

// issueValue validates issue/issuewild values
func (v *CAAValidator) issueValue(value string) Result[string] {
	// ";" means "no CA is authorized"
	if value == ";" {
		return Success(value)
	}

	domain, params, _ := strings.Cut(value, ";")
	domain = strings.TrimSpace(domain)

	if strings.Contains(domain, "://") {
		return Failuref[string]("CAA issue/issuewild value should be domain name only, not URL: %s", domain)
	}
	if strings.ContainsAny(domain, " \t") {
		return Failuref[string]("CAA issue/issuewild value cannot contain spaces: %s", domain)
	}
	if domain != "" {
		if r := v.hostnames.Validate(domain, false); !r.IsValid() || r.Data() == "." {
			return Failuref[string]("CAA issue/issuewild value must be valid CA domain name: %s", domain)
		}
	}

	for _, param := range strings.Fields(params) {
		key, val, ok := strings.Cut(param, "=")
		if !ok || key == "" || val == "" {
			return Failuref[string]("CAA issue/issuewild parameter must be key=value: %s", param)
		}
	}

	return Success(value)
}

// iodefValue validates iodef values
func (v *CAAValidator) iodefValue(value string) Result[string] {
	u, err := url.Parse(value)
	if err != nil {
		return Failuref[string]("CAA iodef URL is invalid: %s", value)
	}

	switch u.Scheme {
	case "mailto":
		if !emailPattern.MatchString(u.Opaque) {
			return Failuref[string]("CAA iodef mailto contains invalid email: %s", u.Opaque)
		}
	case "https":
		if u.Host == "" {
			return Failure[string]("CAA iodef HTTPS URL missing hostname")
		}
		if r := v.hostnames.Validate(u.Hostname(), false); !r.IsValid() {
			return Failuref[string]("CAA iodef HTTPS URL has invalid hostname: %s", u.Hostname())
		}
	default:
		return Failuref[string]("CAA iodef value must start with 'mailto:' or 'https://', got: %s", value)
	}

	return Success(value)
}
