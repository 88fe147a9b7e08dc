package validation

import (
	"context"

	"rrguard.io/internal/models"
)

// NSValidator validates NS candidates. The target must be a plausible
// FQDN that is not an IP address and not an alias.
type NSValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *NSValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	target := v.targetName(c.Content)
	if !target.IsValid() {
		return fail[models.ValidatedRecord](target), nil
	}
	if target.Data() == "." {
		return Failure[models.ValidatedRecord]("NS record target cannot be the root"), nil
	}

	fqdn := ValidateTargetFQDN(target.Data())
	if !fqdn.IsValid() {
		return fail[models.ValidatedRecord](fqdn), nil
	}

	return v.complete(ctx, c, owner.Data(), fqdn.Data(), NoPriority, v.targetNotAlias(fqdn.Data()))
}
