// TLSA Record Validation
//
// Validates DNS TLSA records according to RFC 6698 standards:
// - Certificate Usage field: 0-3 (CA constraint, Service certificate constraint, Trust anchor assertion, Domain-issued certificate)
// - Selector field: 0-1 (Full certificate, SubjectPublicKeyInfo)
// - Matching Type field: 0-2 (Exact match, SHA-256 hash, SHA-512 hash)
// - Certificate Association Data: Valid hexadecimal string
// - Name format: Must be _port._protocol.domain (e.g., _443._tcp.example.com)
// - Content format: "usage selector matchtype certdata"
//
// Examples:
//   "_443._tcp.example.com" → "3 1 1 1234567890ABCDEF..." (valid)
//   "_443._udp.example.com" → "3 1 1 1234..." (valid - DTLS)
//   "example.com" → "3 1 1 1234..." (invalid - wrong name format)
//   "_443._tcp.example.com" → "4 1 1 1234..." (invalid - usage out of range)

package validation

import (
	"context"
	"fmt"
	"strings"

	"rrguard.io/internal/models"
)

const (
	minCertDataLength = 4
	maxCertDataLength = 8192
)

var (
	tlsaProtocols = map[string]bool{
		"_tcp":  true,
		"_udp":  true,
		"_sctp": true,
	}

	// hex digits expected per matching type; 0 (exact match) takes any length
	certDataLengths = map[int]int{
		1: 64,
		2: 128,
	}
)

// TLSAValidator validates TLSA candidates
type TLSAValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *TLSAValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}
	if r := tlsaName(owner.Data()); !r.IsValid() {
		return fail[models.ValidatedRecord](r), nil
	}

	content := tlsaContent(c.Content)
	if !content.IsValid() {
		return fail[models.ValidatedRecord](content), nil
	}

	return v.complete(ctx, c, owner.Data(), content.Data(), NoPriority)
}

func tlsaName(name string) Result[string] {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return Failure[string]("TLSA record name must have at least 3 labels: _port._protocol.domain")
	}

	portLabel := parts[0]
	if !strings.HasPrefix(portLabel, "_") || len(portLabel) < 2 {
		return Failuref[string]("TLSA port label must start with underscore: %s", portLabel)
	}
	port, ok := parseUnsigned(portLabel[1:], 65535)
	if !ok || port == 0 {
		return Failuref[string]("TLSA port number out of range (1-65535): %s", portLabel[1:])
	}

	if !tlsaProtocols[strings.ToLower(parts[1])] {
		return Failuref[string]("TLSA protocol must be _tcp, _udp, or _sctp, got: %s", parts[1])
	}

	return Success(name)
}

func tlsaContent(content string) Result[string] {
	fields := strings.Fields(content)
	if len(fields) != 4 {
		return Failuref[string]("TLSA record content must have 4 fields (usage selector matchtype certdata), got %d", len(fields))
	}

	usage, ok := parseUnsigned(fields[0], 3)
	if !ok {
		return Failuref[string]("TLSA certificate usage out of range (0-3): %s", fields[0])
	}
	selector, ok := parseUnsigned(fields[1], 1)
	if !ok {
		return Failuref[string]("TLSA selector out of range (0-1): %s", fields[1])
	}
	matchType, ok := parseUnsigned(fields[2], 2)
	if !ok {
		return Failuref[string]("TLSA matching type out of range (0-2): %s", fields[2])
	}

	data := fields[3]
	for i := 0; i < len(data); i++ {
		if !isHexDigit(data[i]) {
			return Failuref[string]("TLSA certificate data must be hexadecimal: %s", data)
		}
	}
	if len(data)%2 != 0 {
		return Failuref[string]("TLSA certificate data must have even length (complete bytes): %d characters", len(data))
	}
	if want, ok := certDataLengths[matchType]; ok && len(data) != want {
		return Failuref[string]("TLSA certificate data length invalid for matching type %d: got %d characters, expected %d", matchType, len(data), want)
	}
	if len(data) < minCertDataLength || len(data) > maxCertDataLength {
		return Failuref[string]("TLSA certificate data must be %d-%d characters, got %d", minCertDataLength, maxCertDataLength, len(data))
	}

	return Success(fmt.Sprintf("%d %d %d %s", usage, selector, matchType, strings.ToLower(data)))
}
