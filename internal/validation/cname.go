// CNAME Record Validation
//
// Validates DNS CNAME records according to RFC 1034/2181:
// - An owner name holding a CNAME holds nothing else (RFC 1034 3.6.2)
// - At most one CNAME per owner name (RFC 2181 10.1)
// - MX and NS records must not point at an alias (RFC 2181 10.2/10.3)
// - The zone apex cannot be a CNAME
// - Target must be a plausible FQDN or "." and carries no priority
//
// Checks that need the zone's records run first, in this order:
//   1. no record of another type at the owner name
//   2. no other CNAME at the owner name
//   3. no MX or NS whose content is the owner name
//
// Examples:
//   www.example.com   → example.com          (valid)
//   www.example.com   → www                  (invalid - single label target)
//   example.com       → web.example.net      (invalid at apex of example.com)

package validation

import (
	"context"

	"rrguard.io/internal/models"
)

// CNAMEValidator validates CNAME candidates
type CNAMEValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *CNAMEValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	var none Result[models.ValidatedRecord]
	name := v.hostnames.Normalize(c.Name)

	exists, err := v.gateway.ExistsWithNameAndTypeNot(ctx, name, models.RecordTypeCNAME, c.RecordID)
	if err != nil {
		return none, gatewayError("records at cname owner", err)
	}
	if exists {
		return Failuref[models.ValidatedRecord]("a record of another type already exists at %s; a CNAME cannot share its name", name), nil
	}

	exists, err = v.gateway.ExistsWithNameAndType(ctx, name, models.RecordTypeCNAME, c.RecordID)
	if err != nil {
		return none, gatewayError("duplicate cname", err)
	}
	if exists {
		return Failuref[models.ValidatedRecord]("a CNAME record already exists at %s", name), nil
	}

	exists, err = v.gateway.ExistsWithContentAndTypeIn(ctx, name, []models.RecordType{models.RecordTypeMX, models.RecordTypeNS})
	if err != nil {
		return none, gatewayError("mx/ns pointing at cname", err)
	}
	if exists {
		return Failuref[models.ValidatedRecord]("an MX or NS record points to %s; it cannot become an alias", name), nil
	}

	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	target := v.hostnames.Validate(c.Content, false)
	if !target.IsValid() {
		return Failuref[models.ValidatedRecord]("invalid CNAME target: %s", target.Message()), nil
	}

	fqdn := ValidateTargetFQDN(target.Data())
	if !fqdn.IsValid() {
		return fail[models.ValidatedRecord](fqdn), nil
	}

	if c.ZoneName != "" && atApex(owner.Data(), c.ZoneName) {
		return Failuref[models.ValidatedRecord]("the zone apex %s cannot be a CNAME", owner.Data()), nil
	}

	ttl := ValidateTTL(c.TTL, c.DefaultTTL)
	if !ttl.IsValid() {
		return fail[models.ValidatedRecord](ttl), nil
	}

	prio := NoPriority.Validate(c.Priority)
	if !prio.IsValid() {
		return fail[models.ValidatedRecord](prio), nil
	}

	return Success(models.ValidatedRecord{
		Name:     owner.Data(),
		Content:  fqdn.Data(),
		Priority: prio.Data(),
		TTL:      ttl.Data(),
	}), nil
}
