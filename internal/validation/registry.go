package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miekg/dns"

	"rrguard.io/internal/models"
	"rrguard.io/internal/storage"
)

// RegistryOptions selects which record types a Registry serves
type RegistryOptions struct {
	Hostnames       *HostnameValidator
	DefaultPriority int
	EnableDNSSEC    bool
	DisabledTypes   []models.RecordType
}

// Registry maps record type tokens to their validators. It is built once
// and only read afterwards.
type Registry struct {
	validators map[models.RecordType]RecordValidator
}

// NewRegistry builds one validator per enabled record type
func NewRegistry(gw storage.Gateway, opts RegistryOptions) *Registry {
	hostnames := opts.Hostnames
	if hostnames == nil {
		hostnames = NewHostnameValidator(0, true, false)
	}

	base := func(rtype models.RecordType) recordBase {
		return recordBase{rtype: rtype, hostnames: hostnames, gateway: gw}
	}
	priority := RangedPriority(opts.DefaultPriority)

	all := []RecordValidator{
		newAddressValidator(base(models.RecordTypeA)),
		newAddressValidator(base(models.RecordTypeAAAA)),
		&CNAMEValidator{recordBase: base(models.RecordTypeCNAME)},
		&MXValidator{recordBase: base(models.RecordTypeMX), priority: priority},
		&NSValidator{recordBase: base(models.RecordTypeNS)},
		&TXTValidator{recordBase: base(models.RecordTypeTXT)},
		&TXTValidator{recordBase: base(models.RecordTypeSPF)},
		&SOAValidator{recordBase: base(models.RecordTypeSOA)},
		&SRVValidator{recordBase: base(models.RecordTypeSRV), priority: priority},
		&PTRValidator{recordBase: base(models.RecordTypePTR)},
		&CAAValidator{recordBase: base(models.RecordTypeCAA)},
		&TLSAValidator{recordBase: base(models.RecordTypeTLSA)},
	}

	generic := []models.RecordType{
		models.RecordTypeAFSDB,
		models.RecordTypeCERT,
		models.RecordTypeDHCID,
		models.RecordTypeDNAME,
		models.RecordTypeHINFO,
		models.RecordTypeHTTPS,
		models.RecordTypeKX,
		models.RecordTypeLOC,
		models.RecordTypeNAPTR,
		models.RecordTypeOPENPGPKEY,
		models.RecordTypeRP,
		models.RecordTypeSMIMEA,
		models.RecordTypeSSHFP,
		models.RecordTypeSVCB,
		models.RecordTypeURI,
	}
	generic = append(generic, models.DNSSECTypes...)
	for _, rtype := range generic {
		all = append(all, &GenericValidator{recordBase: base(rtype)})
	}

	disabled := make(map[models.RecordType]bool, len(opts.DisabledTypes))
	for _, t := range opts.DisabledTypes {
		disabled[t] = true
	}

	r := &Registry{validators: make(map[models.RecordType]RecordValidator, len(all))}
	for _, v := range all {
		t := v.Type()
		if disabled[t] || (t.IsDNSSEC() && !opts.EnableDNSSEC) {
			continue
		}
		r.validators[t] = v
	}
	return r
}

// ForType returns the validator for a type token, ignoring case. Unknown
// and disabled types yield an error wrapping ErrUnsupportedRecordType.
func (r *Registry) ForType(token string) (RecordValidator, error) {
	rtype := models.ParseRecordType(token)
	if v, ok := r.validators[rtype]; ok {
		return v, nil
	}

	if _, known := dns.StringToType[rtype.String()]; known && rtype != "" {
		return nil, fmt.Errorf("%w: %s is not enabled", ErrUnsupportedRecordType, rtype)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedRecordType, strings.TrimSpace(token))
}

// Types lists the enabled record types in order
func (r *Registry) Types() []models.RecordType {
	types := make([]models.RecordType, 0, len(r.validators))
	for t := range r.validators {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
