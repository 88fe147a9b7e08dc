package validation

import (
	"context"

	"rrguard.io/internal/models"
	"rrguard.io/internal/storage"
)

// RecordValidator validates candidates of one record type
type RecordValidator interface {
	// Type returns the record type the validator handles
	Type() models.RecordType

	// Validate runs the type's checks in order and stops at the first
	// failure. The error is non-nil only when the candidate could not be
	// evaluated.
	Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error)
}

// guard is a gateway-backed check run after the local checks of a type.
// It returns a rejection message, or "" to continue.
type guard func(ctx context.Context) (string, error)

// recordBase carries what every type validator shares
type recordBase struct {
	rtype     models.RecordType
	hostnames *HostnameValidator
	gateway   storage.Gateway
}

func (b *recordBase) Type() models.RecordType {
	return b.rtype
}

func (b *recordBase) ownerName(name string) Result[string] {
	r := b.hostnames.Validate(name, true)
	if !r.IsValid() {
		return Failuref[string]("invalid %s record name: %s", b.rtype, r.Message())
	}
	return r
}

// targetName validates a hostname used as record data: it must be a
// target-mode hostname and not an IP literal.
func (b *recordBase) targetName(target string) Result[string] {
	if isIPLiteral(target) {
		return Failuref[string]("%s record target cannot be an IP address: %s", b.rtype, target)
	}
	r := b.hostnames.Validate(target, false)
	if !r.IsValid() {
		return Failuref[string]("invalid %s record target: %s", b.rtype, r.Message())
	}
	return r
}

// complete runs the tail shared by every non-CNAME type: TTL, priority,
// the CNAME-at-owner rule and any type specific guards.
func (b *recordBase) complete(ctx context.Context, c models.Candidate, name, content string, policy PriorityPolicy, guards ...guard) (Result[models.ValidatedRecord], error) {
	ttl := ValidateTTL(c.TTL, c.DefaultTTL)
	if !ttl.IsValid() {
		return fail[models.ValidatedRecord](ttl), nil
	}

	prio := policy.Validate(c.Priority)
	if !prio.IsValid() {
		return fail[models.ValidatedRecord](prio), nil
	}

	if !b.rtype.MayCoexistWithCNAME() {
		exists, err := b.gateway.ExistsWithNameAndType(ctx, models.NormalizeDomainName(name), models.RecordTypeCNAME, c.RecordID)
		if err != nil {
			return Result[models.ValidatedRecord]{}, gatewayError("cname at owner", err)
		}
		if exists {
			return Failuref[models.ValidatedRecord]("a CNAME record already exists at %s; no %s record may share its name", name, b.rtype), nil
		}
	}

	for _, g := range guards {
		msg, err := g(ctx)
		if err != nil {
			return Result[models.ValidatedRecord]{}, err
		}
		if msg != "" {
			return Failure[models.ValidatedRecord](msg), nil
		}
	}

	return Success(models.ValidatedRecord{
		Name:     name,
		Content:  content,
		Priority: prio.Data(),
		TTL:      ttl.Data(),
	}), nil
}

// targetNotAlias rejects a target that is the owner name of an existing
// CNAME (RFC 2181 section 10.3).
func (b *recordBase) targetNotAlias(target string) guard {
	return func(ctx context.Context) (string, error) {
		if target == "." {
			return "", nil
		}
		exists, err := b.gateway.ExistsWithNameAndType(ctx, models.NormalizeDomainName(target), models.RecordTypeCNAME, 0)
		if err != nil {
			return "", gatewayError("cname at target", err)
		}
		if exists {
			return "the " + b.rtype.String() + " target " + target + " is an alias (CNAME); it must point to a canonical name", nil
		}
		return "", nil
	}
}

// atApex checks that name is the zone apex when the zone is known
func atApex(name, zone string) bool {
	zone = models.NormalizeDomainName(zone)
	return zone == "" || models.NormalizeDomainName(name) == zone
}
