// internal/storage/gateway.go
package storage

import (
	"context"

	"rrguard.io/internal/models"
)

// LogicalRecordsTable is the logical name of the records table
const LogicalRecordsTable = "records"

// Gateway is the narrow query capability the validation engine uses to
// check a candidate against the records already in the store. Names and
// contents compare case-insensitively. An excludeID of 0 excludes nothing;
// any other value skips the record with that ID (the one being updated).
type Gateway interface {
	// ExistsWithNameAndTypeNot reports whether a record named name exists
	// whose type is not excludedType
	ExistsWithNameAndTypeNot(ctx context.Context, name string, excludedType models.RecordType, excludeID int) (bool, error)

	// ExistsWithNameAndType reports whether a record named name of type rtype exists
	ExistsWithNameAndType(ctx context.Context, name string, rtype models.RecordType, excludeID int) (bool, error)

	// ExistsWithNameTypeAndContent reports whether a record named name of
	// type rtype has content equal to content
	ExistsWithNameTypeAndContent(ctx context.Context, name string, rtype models.RecordType, content string, excludeID int) (bool, error)

	// ExistsWithContentAndTypeIn reports whether a record of one of types
	// has content equal to content
	ExistsWithContentAndTypeIn(ctx context.Context, content string, types []models.RecordType) (bool, error)

	// TableName resolves a logical table name to the configured one
	TableName(logical string) string
}

// typeStrings converts record types for query binding
func typeStrings(types []models.RecordType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
