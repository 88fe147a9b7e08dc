package validation

import (
	"net/netip"
	"strconv"
	"strings"
)

// MaxTTL is the largest TTL a record may carry (RFC 2181 section 8)
const MaxTTL = 2147483647

// ValidateTTL resolves a TTL: empty input takes defaultTTL, anything else
// must be an integer in [0, MaxTTL].
func ValidateTTL(ttl string, defaultTTL int) Result[int] {
	ttl = strings.TrimSpace(ttl)
	if ttl == "" {
		if defaultTTL < 0 || defaultTTL > MaxTTL {
			return Failuref[int]("default TTL %d is out of range (0-%d)", defaultTTL, MaxTTL)
		}
		return Success(defaultTTL)
	}

	n, ok := parseUnsigned(ttl, MaxTTL)
	if !ok {
		return Failuref[int]("invalid TTL %q: must be an integer between 0 and %d", ttl, MaxTTL)
	}
	return Success(n)
}

// PriorityPolicy describes how a record type treats the priority field
type PriorityPolicy struct {
	Min     int
	Max     int
	Default int
	// None marks types without a priority: only empty or 0 is accepted
	None bool
}

// NoPriority is the policy for every type that has no priority field
var NoPriority = PriorityPolicy{None: true}

// RangedPriority returns the 16 bit policy used by MX and SRV
func RangedPriority(def int) PriorityPolicy {
	return PriorityPolicy{Min: 0, Max: 65535, Default: def}
}

// Validate resolves the priority field under the policy
func (p PriorityPolicy) Validate(prio string) Result[int] {
	prio = strings.TrimSpace(prio)

	if p.None {
		if prio == "" {
			return Success(0)
		}
		n, ok := parseUnsigned(prio, MaxTTL)
		if !ok || n != 0 {
			return Failuref[int]("invalid priority %q: this record type does not use a priority", prio)
		}
		return Success(0)
	}

	if prio == "" {
		return Success(p.Default)
	}

	n, ok := parseUnsigned(prio, p.Max)
	if !ok || n < p.Min {
		return Failuref[int]("invalid priority %q: must be an integer between %d and %d", prio, p.Min, p.Max)
	}
	return Success(n)
}

// ValidateIPv4 checks an IPv4 literal for A content
func ValidateIPv4(s string) Result[string] {
	s = strings.TrimSpace(s)
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return Failuref[string]("%q is not a valid IPv4 address", s)
	}
	return Success(addr.String())
}

// ValidateIPv6 checks an IPv6 literal for AAAA content
func ValidateIPv6(s string) Result[string] {
	s = strings.TrimSpace(s)
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return Failuref[string]("%q is not a valid IPv6 address", s)
	}
	return Success(addr.String())
}

// isIPLiteral reports whether s parses as any IP address
func isIPLiteral(s string) bool {
	_, err := netip.ParseAddr(strings.TrimSpace(s))
	return err == nil
}

// parseUint32 parses a plain decimal integer in the uint32 range
func parseUint32(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// parseUnsigned parses a plain decimal integer no larger than max
func parseUnsigned(s string, max int) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > int64(max) {
		return 0, false
	}
	return int(n), true
}
