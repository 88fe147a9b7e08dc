// internal/models/dns.go
package models

import (
	"fmt"
	"strings"
)

// RecordType represents a DNS resource record type token
type RecordType string

const (
	RecordTypeA          RecordType = "A"
	RecordTypeAAAA       RecordType = "AAAA"
	RecordTypeAFSDB      RecordType = "AFSDB"
	RecordTypeCAA        RecordType = "CAA"
	RecordTypeCDNSKEY    RecordType = "CDNSKEY"
	RecordTypeCDS        RecordType = "CDS"
	RecordTypeCERT       RecordType = "CERT"
	RecordTypeCNAME      RecordType = "CNAME"
	RecordTypeDHCID      RecordType = "DHCID"
	RecordTypeDNAME      RecordType = "DNAME"
	RecordTypeDNSKEY     RecordType = "DNSKEY"
	RecordTypeDS         RecordType = "DS"
	RecordTypeHINFO      RecordType = "HINFO"
	RecordTypeHTTPS      RecordType = "HTTPS"
	RecordTypeKX         RecordType = "KX"
	RecordTypeLOC        RecordType = "LOC"
	RecordTypeMX         RecordType = "MX"
	RecordTypeNAPTR      RecordType = "NAPTR"
	RecordTypeNS         RecordType = "NS"
	RecordTypeNSEC       RecordType = "NSEC"
	RecordTypeNSEC3      RecordType = "NSEC3"
	RecordTypeNSEC3PARAM RecordType = "NSEC3PARAM"
	RecordTypeOPENPGPKEY RecordType = "OPENPGPKEY"
	RecordTypePTR        RecordType = "PTR"
	RecordTypeRP         RecordType = "RP"
	RecordTypeRRSIG      RecordType = "RRSIG"
	RecordTypeSMIMEA     RecordType = "SMIMEA"
	RecordTypeSOA        RecordType = "SOA"
	RecordTypeSPF        RecordType = "SPF"
	RecordTypeSRV        RecordType = "SRV"
	RecordTypeSSHFP      RecordType = "SSHFP"
	RecordTypeSVCB       RecordType = "SVCB"
	RecordTypeTLSA       RecordType = "TLSA"
	RecordTypeTXT        RecordType = "TXT"
	RecordTypeURI        RecordType = "URI"
)

// DNSSECTypes are the record types only meaningful in signed zones.
var DNSSECTypes = []RecordType{
	RecordTypeCDNSKEY,
	RecordTypeCDS,
	RecordTypeDNSKEY,
	RecordTypeDS,
	RecordTypeNSEC,
	RecordTypeNSEC3,
	RecordTypeNSEC3PARAM,
	RecordTypeRRSIG,
}

// IsDNSSEC reports whether the type belongs to the DNSSEC group
func (rt RecordType) IsDNSSEC() bool {
	for _, t := range DNSSECTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// MayCoexistWithCNAME reports whether a record of this type may share an
// owner name with a CNAME (RFC 4035 section 2.5).
func (rt RecordType) MayCoexistWithCNAME() bool {
	return rt == RecordTypeRRSIG || rt == RecordTypeNSEC
}

// String returns the string representation of the record type
func (rt RecordType) String() string {
	return string(rt)
}

// ParseRecordType normalizes a user supplied type token. The result is
// not checked against any list of supported types.
func ParseRecordType(token string) RecordType {
	return RecordType(strings.ToUpper(strings.TrimSpace(token)))
}

// NormalizeDomainName normalizes a domain name for consistent storage/lookup
func NormalizeDomainName(name string) string {
	name = strings.TrimSpace(name)
	if name == "." {
		return name
	}
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// Record is the read-only projection of a stored record the validation
// engine may query.
type Record struct {
	ID       int        `json:"id" yaml:"id" db:"id"`
	Name     string     `json:"name" yaml:"name" db:"name"`
	Type     RecordType `json:"type" yaml:"type" db:"type"`
	Content  string     `json:"content" yaml:"content" db:"content"`
	TTL      int        `json:"ttl" yaml:"ttl" db:"ttl"`
	Priority int        `json:"prio" yaml:"prio" db:"prio"`
}

// String returns the record in zone-file like order
func (r Record) String() string {
	return fmt.Sprintf("%s %d %s %d %s", r.Name, r.TTL, r.Type, r.Priority, r.Content)
}

// Candidate is a proposed record mutation. Priority and TTL are kept as
// entered so that empty input can be told apart from an explicit zero.
type Candidate struct {
	Type       string
	Name       string
	Content    string
	Priority   string
	TTL        string
	DefaultTTL int
	RecordID   int // 0 when creating
	ZoneName   string
}

// IsUpdate reports whether the candidate replaces an existing record
func (c Candidate) IsUpdate() bool {
	return c.RecordID > 0
}

// ValidatedRecord is the normalized output of a successful validation
type ValidatedRecord struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Priority int    `json:"prio"`
	TTL      int    `json:"ttl"`
}
