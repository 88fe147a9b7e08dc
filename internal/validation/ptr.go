// PTR Record Validation
//
// Validates DNS PTR records according to RFC 1035/3596 standards:
// - IPv4 owner: "octet.octet.octet.octet.in-addr.arpa", each octet 0-255
// - IPv6 owner: "nibble...nibble.ip6.arpa", 1-32 hex nibbles
// - Target must be a hostname, never an IP address
//
// Examples:
//   1.0.168.192.in-addr.arpa → mail.example.com   (valid)
//   256.0.168.192.in-addr.arpa                    (invalid - octet > 255)
//   example.com → host.example.com                (invalid - not reverse format)
//   1.0.168.192.in-addr.arpa → 192.168.0.1        (invalid - IP address)

package validation

import (
	"context"
	"strings"

	"rrguard.io/internal/models"
)

const (
	reverseV4Suffix = ".in-addr.arpa"
	reverseV6Suffix = ".ip6.arpa"
)

// PTRValidator validates PTR candidates
type PTRValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *PTRValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}
	if r := reverseName(owner.Data()); !r.IsValid() {
		return fail[models.ValidatedRecord](r), nil
	}

	target := v.targetName(c.Content)
	if !target.IsValid() {
		return fail[models.ValidatedRecord](target), nil
	}
	if target.Data() == "." {
		return Failure[models.ValidatedRecord]("PTR record target cannot be the root"), nil
	}

	return v.complete(ctx, c, owner.Data(), target.Data(), NoPriority)
}

// reverseName checks the in-addr.arpa / ip6.arpa layout of a PTR owner
func reverseName(name string) Result[string] {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, reverseV4Suffix):
		octets := strings.Split(strings.TrimSuffix(lower, reverseV4Suffix), ".")
		if len(octets) != 4 {
			return Failuref[string]("PTR record name invalid IPv4 format: %s (expected 4 octets)", name)
		}
		for _, octet := range octets {
			if _, ok := parseUnsigned(octet, 255); !ok {
				return Failuref[string]("PTR record name invalid octet '%s': %s", octet, name)
			}
		}
		return Success(name)

	case strings.HasSuffix(lower, reverseV6Suffix):
		nibbles := strings.Split(strings.TrimSuffix(lower, reverseV6Suffix), ".")
		if len(nibbles) > 32 {
			return Failuref[string]("PTR record name too many hex digits for IPv6: %s", name)
		}
		for _, nibble := range nibbles {
			if len(nibble) != 1 || !isHexDigit(nibble[0]) {
				return Failuref[string]("PTR record name invalid hex digit '%s': %s", nibble, name)
			}
		}
		return Success(name)
	}

	return Failuref[string]("PTR record name must end with .in-addr.arpa (IPv4) or .ip6.arpa (IPv6): %s", name)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
