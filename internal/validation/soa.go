/*
SOA Record Format:
- MNAME: Primary nameserver (FQDN)
- RNAME: Admin email (encoded as FQDN: admin.example.com = admin@example.com)
- SERIAL: Version number (typically YYYYMMDDNN)
- REFRESH: Secondary refresh interval (seconds)
- RETRY: Retry interval on failed refresh (seconds)
- EXPIRE: Zone expiration time (seconds)
- MINIMUM: Negative cache TTL (seconds)

Content format: "ns1.example.com admin.example.com 2025061901 3600 1800 604800 86400"

Placement rules:
- SOA records cannot have wildcards in the name field
- SOA records can only exist at zone apex
- Only one SOA per zone
*/

package validation

import (
	"context"
	"fmt"
	"strings"

	"rrguard.io/internal/models"
)

// SOAValidator validates SOA candidates
type SOAValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *SOAValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	if strings.Contains(c.Name, "*") {
		return Failure[models.ValidatedRecord]("SOA records cannot contain wildcards"), nil
	}

	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	if !atApex(owner.Data(), c.ZoneName) {
		return Failuref[models.ValidatedRecord]("SOA record must be at the zone apex %s, not %s", models.NormalizeDomainName(c.ZoneName), owner.Data()), nil
	}

	content := v.content(c.Content)
	if !content.IsValid() {
		return fail[models.ValidatedRecord](content), nil
	}

	return v.complete(ctx, c, owner.Data(), content.Data(), NoPriority, v.singleSOA(owner.Data(), c.RecordID))
}

// content checks the seven SOA fields and returns them normalized
func (v *SOAValidator) content(content string) Result[string] {
	fields := strings.Fields(content)
	if len(fields) != 7 {
		return Failuref[string]("SOA content must have exactly 7 fields, got %d", len(fields))
	}

	mname := v.targetName(fields[0])
	if !mname.IsValid() || mname.Data() == "." {
		return Failuref[string]("SOA MNAME invalid: %s is not a valid FQDN", fields[0])
	}

	if strings.Contains(fields[1], "@") {
		return Failuref[string]("SOA RNAME invalid: %s must be written as a name (hostmaster.example.com), not an email address", fields[1])
	}
	rname := v.hostnames.Validate(fields[1], false)
	if !rname.IsValid() || rname.Data() == "." {
		return Failuref[string]("SOA RNAME invalid: %s is not a valid FQDN", fields[1])
	}

	labels := []string{"SERIAL", "REFRESH", "RETRY", "EXPIRE", "MINIMUM"}
	timers := make([]uint32, len(labels))
	for i, label := range labels {
		n, ok := parseUint32(fields[i+2])
		if !ok {
			return Failuref[string]("SOA %s invalid: %s is not a valid 32-bit unsigned integer", label, fields[i+2])
		}
		if n == 0 && (label == "REFRESH" || label == "RETRY" || label == "EXPIRE") {
			return Failuref[string]("SOA %s invalid: must be greater than 0", label)
		}
		timers[i] = n
	}

	serial, refresh, retry, expire, minimum := timers[0], timers[1], timers[2], timers[3], timers[4]

	if retry >= refresh {
		return Failuref[string]("SOA timing conflict: RETRY (%d) must be less than REFRESH (%d)", retry, refresh)
	}
	if expire <= refresh {
		return Failuref[string]("SOA timing conflict: EXPIRE (%d) must be greater than REFRESH (%d)", expire, refresh)
	}
	if retry >= expire {
		return Failuref[string]("SOA timing conflict: RETRY (%d) must be less than EXPIRE (%d)", retry, expire)
	}
	if minimum > refresh {
		return Failuref[string]("SOA timing conflict: MINIMUM (%d) should not exceed REFRESH (%d)", minimum, refresh)
	}

	return Success(fmt.Sprintf("%s %s %d %d %d %d %d", mname.Data(), rname.Data(), serial, refresh, retry, expire, minimum))
}

func (v *SOAValidator) singleSOA(name string, recordID int) guard {
	return func(ctx context.Context) (string, error) {
		exists, err := v.gateway.ExistsWithNameAndType(ctx, name, models.RecordTypeSOA, recordID)
		if err != nil {
			return "", gatewayError("existing soa", err)
		}
		if exists {
			return "an SOA record already exists at " + name, nil
		}
		return "", nil
	}
}
