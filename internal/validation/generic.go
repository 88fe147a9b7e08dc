package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"rrguard.io/internal/models"
)

// GenericValidator validates types whose content is checked by parsing it
// as presentation-format rdata with miekg/dns. The parsed record is
// written back out so equivalent spellings normalize to one form.
type GenericValidator struct {
	recordBase
}

// Validate implements RecordValidator
func (v *GenericValidator) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	owner := v.ownerName(c.Name)
	if !owner.IsValid() {
		return fail[models.ValidatedRecord](owner), nil
	}

	content := v.rdata(owner.Data(), c.Content)
	if !content.IsValid() {
		return fail[models.ValidatedRecord](content), nil
	}

	return v.complete(ctx, c, owner.Data(), content.Data(), NoPriority)
}

func (v *GenericValidator) rdata(name, content string) Result[string] {
	content = strings.TrimSpace(content)
	if content == "" {
		return Failuref[string]("%s record content cannot be empty", v.rtype)
	}
	if strings.ContainsAny(content, "\n\r") {
		return Failuref[string]("%s record content must be a single line", v.rtype)
	}

	rr, err := dns.NewRR(fmt.Sprintf("%s 3600 IN %s %s", dns.Fqdn(name), v.rtype, content))
	if err != nil {
		return Failuref[string]("invalid %s record content: %v", v.rtype, err)
	}
	if rr == nil || dns.TypeToString[rr.Header().Rrtype] != v.rtype.String() {
		return Failuref[string]("invalid %s record content: %s", v.rtype, content)
	}

	// rdata is what follows the header in the record's text form
	hdr := rr.Header().String()
	return Success(strings.TrimSpace(strings.TrimPrefix(rr.String(), hdr)))
}
