// A and AAAA Record Validation
//
// Content must be an address literal of the matching family:
//   A     → 192.0.2.1                (valid)
//   A     → 2001:db8::1              (invalid - IPv6)
//   AAAA  → 2001:DB8:0:0::1          (valid, stored as 2001:db8::1)
//   AAAA  → fe80::1%eth0             (invalid - zoned address)

package validation

import (
	"context"

	"rrguard.io/internal/models"
)

// AddressValidator validates A and AAAA candidates
type AddressValidator struct {
	recordBase
	parse func(string) Result[string]
}

func newAddressValidator(base recordBase) *AddressValidator {
	v := &AddressValidator{recordBase: base, parse: ValidateIPv4}
	if base.rtype == models.RecordTypeAAAA {
		v.parse = ValidateIPv6
	}
	return v
}

// Validate implements RecordValidator
func (v *AddressValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	addr := v.parse(c.Content)
	if !addr.IsValid() {
		return Failuref[models.ValidatedRecord]("invalid %s record content: %s", v.rtype, addr.Message()), nil
	}

	return v.complete(ctx, c, owner.Data(), addr.Data(), NoPriority)
}
