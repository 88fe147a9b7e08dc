// MX Record Validation
//
// Validates DNS MX records according to RFC 5321/7505:
// - Target must be a hostname, never an IP address
// - Target must not be an alias (RFC 2181 10.3)
// - Preference: 0-65535, lower is preferred
// - "." is a null MX (domain accepts no mail) and requires preference 0;
//   a null MX is the only MX at its owner (RFC 7505 section 3)
//
// Examples:
//   example.com → mail.example.com, prio 10   (valid)
//   example.com → 192.0.2.25                  (invalid - IP address)
//   example.com → ., prio 0                   (valid - null MX)

package validation

import (
	"context"
	"strings"

	"rrguard.io/internal/models"
)

var nullMXPriority = PriorityPolicy{Min: 0, Max: 0, Default: 0}

// MXValidator validates MX candidates
type MXValidator struct {
	recordBase
	priority PriorityPolicy
}

// Validate implements RecordValidator
func (v *MXValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	if strings.TrimSpace(c.Content) == "." {
		return v.complete(ctx, c, owner.Data(), ".", nullMXPriority, v.onlyMX(owner.Data(), c.RecordID))
	}

	target := v.targetName(c.Content)
	if !target.IsValid() {
		return fail[models.ValidatedRecord](target), nil
	}

	fqdn := ValidateTargetFQDN(target.Data())
	if !fqdn.IsValid() {
		return fail[models.ValidatedRecord](fqdn), nil
	}

	return v.complete(ctx, c, owner.Data(), fqdn.Data(), v.priority,
		v.noNullMX(owner.Data(), c.RecordID),
		v.targetNotAlias(fqdn.Data()),
	)
}

// noNullMX rejects an MX at an owner that already declares a null MX
func (v *MXValidator) noNullMX(name string, recordID int) guard {
	return func(ctx context.Context) (string, error) {
		exists, err := v.gateway.ExistsWithNameTypeAndContent(ctx, name, models.RecordTypeMX, ".", recordID)
		if err != nil {
			return "", gatewayError("null mx at owner", err)
		}
		if exists {
			return name + " has a null MX and accepts no mail; remove it before adding an MX record", nil
		}
		return "", nil
	}
}

// onlyMX rejects a null MX next to other MX records (RFC 7505 section 3)
func (v *MXValidator) onlyMX(name string, recordID int) guard {
	return func(ctx context.Context) (string, error) {
		exists, err := v.gateway.ExistsWithNameAndType(ctx, name, models.RecordTypeMX, recordID)
		if err != nil {
			return "", gatewayError("mx at null mx owner", err)
		}
		if exists {
			return "a null MX must be the only MX record at " + name, nil
		}
		return "", nil
	}
}
