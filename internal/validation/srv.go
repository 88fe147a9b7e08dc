// SRV Record Validation
//
// Validates DNS SRV records according to RFC 2782 standards:
// - Target must be valid domain name or "." (no service available)
// - Service format: "_service._protocol.domain" (underscores required)
// - Protocol must be "_tcp", "_udp", "_tls" or "_sctp"
// - Priority: 0-65535 (lower values = higher priority), kept in the prio field
// - Weight: 0-65535 (for load balancing among same priority)
// - Port: 1-65535 (0 invalid for SRV)
// - Content format: "weight port target"; a leading priority field
//   ("priority weight port target") is accepted and folded into prio
//
// Examples:
//   "_http._tcp.example.com" → "60 80 web1.example.com", prio 10   (valid)
//   "_sip._udp.example.com"  → "0 5 5060 sip.example.com"         (valid, prio 0)
//   "_service._tcp.test.com" → "0 443 ."                          (valid - no service)
//   "http._tcp.example.com"  → (invalid - missing underscore)
//   "_http._ipx.example.com" → (invalid - unsupported protocol)

package validation

import (
	"context"
	"fmt"
	"strings"

	"rrguard.io/internal/models"
)

var srvProtocols = map[string]bool{
	"_tcp":  true,
	"_udp":  true,
	"_tls":  true,
	"_sctp": true,
}

// SRVValidator validates SRV candidates
type SRVValidator struct {
	recordBase
	priority PriorityPolicy
}

// Validate implements RecordValidator
func (v *SRVValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}
	if r := v.serviceName(owner.Data()); !r.IsValid() {
		return fail[models.ValidatedRecord](r), nil
	}

	fields := strings.Fields(c.Content)
	if len(fields) == 4 {
		if given := strings.TrimSpace(c.Priority); given != "" {
			want, okGiven := parseUnsigned(given, 65535)
			got, okContent := parseUnsigned(fields[0], 65535)
			if !okGiven || !okContent || want != got {
				return Failuref[models.ValidatedRecord]("SRV priority %s in content does not match priority %s", fields[0], given), nil
			}
		}
		c.Priority = fields[0]
		fields = fields[1:]
	}
	if len(fields) != 3 {
		return Failuref[models.ValidatedRecord]("SRV content must have 3 fields (weight port target), got %d", len(fields)), nil
	}

	weight, ok := parseUnsigned(fields[0], 65535)
	if !ok {
		return Failuref[models.ValidatedRecord]("SRV weight invalid: %s is not a valid 16-bit unsigned integer", fields[0]), nil
	}

	port, ok := parseUnsigned(fields[1], 65535)
	if !ok {
		return Failuref[models.ValidatedRecord]("SRV port invalid: %s is not a valid 16-bit unsigned integer", fields[1]), nil
	}
	if port == 0 {
		return Failure[models.ValidatedRecord]("SRV port cannot be 0"), nil
	}

	target := v.targetName(fields[2])
	if !target.IsValid() {
		return fail[models.ValidatedRecord](target), nil
	}

	content := fmt.Sprintf("%d %d %s", weight, port, target.Data())
	return v.complete(ctx, c, owner.Data(), content, v.priority, v.targetNotAlias(target.Data()))
}

// serviceName checks the _service._protocol.domain layout of an owner name
func (v *SRVValidator) serviceName(name string) Result[string] {
	labels := strings.Split(name, ".")
	if len(labels) < 3 {
		return Failure[string]("SRV record name must have at least 3 labels: _service._protocol.domain")
	}

	service := labels[0]
	if !strings.HasPrefix(service, "_") || len(service) < 2 {
		return Failuref[string]("SRV service label must start with underscore: %s", service)
	}

	protocol := strings.ToLower(labels[1])
	if !srvProtocols[protocol] {
		return Failuref[string]("SRV protocol must be _tcp, _udp, _tls or _sctp, got: %s", labels[1])
	}

	for _, label := range labels[2:] {
		if strings.HasPrefix(label, "_") {
			return Failuref[string]("SRV domain portion cannot contain service labels: %s", name)
		}
	}

	return Success(name)
}
