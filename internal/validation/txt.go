package validation

import (
	"context"
	"strings"

	"rrguard.io/internal/models"
)

// TXTValidator validates TXT and SPF candidates
type TXTValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *TXTValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	content := ValidateTXTContent(c.Content)
	if !content.IsValid() {
		return Failuref[models.ValidatedRecord]("invalid %s record content: %s", v.rtype, content.Message()), nil
	}

	if v.rtype == models.RecordTypeSPF && !isSPFPolicy(content.Data()) {
		return Failure[models.ValidatedRecord](`SPF record content must start with "v=spf1"`), nil
	}

	return v.complete(ctx, c, owner.Data(), content.Data(), NoPriority)
}

// isSPFPolicy checks the RFC 7208 version tag, ignoring string quoting
func isSPFPolicy(content string) bool {
	policy := strings.ToLower(strings.TrimPrefix(content, `"`))
	return policy == "v=spf1" || strings.HasPrefix(policy, "v=spf1 ") || strings.HasPrefix(policy, `v=spf1"`)
}
