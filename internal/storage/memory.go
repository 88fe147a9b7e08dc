// internal/storage/memory.go
package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"rrguard.io/internal/models"
)

// MemoryGateway implements Gateway over an in-memory record snapshot
type MemoryGateway struct {
	mu      sync.RWMutex
	records map[int]models.Record
	nextID  int
}

// NewMemoryGateway creates a gateway seeded with records. Records without
// an ID are assigned one.
func NewMemoryGateway(records ...models.Record) *MemoryGateway {
	g := &MemoryGateway{
		records: make(map[int]models.Record),
		nextID:  1,
	}
	for _, r := range records {
		g.Add(r)
	}
	return g
}

// recordsFile is the YAML layout accepted by LoadMemoryGateway
type recordsFile struct {
	Records []models.Record `yaml:"records"`
}

// LoadMemoryGateway reads a YAML record snapshot:
//
//	records:
//	  - {id: 1, name: example.com, type: SOA, content: "ns1.example.com hostmaster.example.com 1 3600 600 86400 300"}
//	  - {id: 2, name: www.example.com, type: A, content: 192.0.2.10}
func LoadMemoryGateway(path string) (*MemoryGateway, error) {
	if path == "" {
		return NewMemoryGateway(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file %s: %w", path, err)
	}

	var f recordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse records file %s: %w", path, err)
	}

	for i, r := range f.Records {
		f.Records[i].Type = models.ParseRecordType(string(r.Type))
	}

	return NewMemoryGateway(f.Records...), nil
}

// Add stores a record and returns its ID
func (g *MemoryGateway) Add(r models.Record) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r.ID == 0 {
		r.ID = g.nextID
	}
	if r.ID >= g.nextID {
		g.nextID = r.ID + 1
	}

	r.Name = models.NormalizeDomainName(r.Name)
	g.records[r.ID] = r
	return r.ID
}

// Remove deletes a record by ID
func (g *MemoryGateway) Remove(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.records, id)
}

// Records returns a copy of the snapshot
func (g *MemoryGateway) Records() []models.Record {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]models.Record, 0, len(g.records))
	for _, r := range g.records {
		out = append(out, r)
	}
	return out
}

func (g *MemoryGateway) any(match func(models.Record) bool) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, r := range g.records {
		if match(r) {
			return true
		}
	}
	return false
}

// ExistsWithNameAndTypeNot implements Gateway
func (g *MemoryGateway) ExistsWithNameAndTypeNot(ctx context.Context, name string, excludedType models.RecordType, excludeID int) (bool, error) {
	name = models.NormalizeDomainName(name)
	return g.any(func(r models.Record) bool {
		return r.ID != excludeID && r.Name == name && r.Type != excludedType
	}), ctx.Err()
}

// ExistsWithNameAndType implements Gateway
func (g *MemoryGateway) ExistsWithNameAndType(ctx context.Context, name string, rtype models.RecordType, excludeID int) (bool, error) {
	name = models.NormalizeDomainName(name)
	return g.any(func(r models.Record) bool {
		return r.ID != excludeID && r.Name == name && r.Type == rtype
	}), ctx.Err()
}

// ExistsWithNameTypeAndContent implements Gateway
func (g *MemoryGateway) ExistsWithNameTypeAndContent(ctx context.Context, name string, rtype models.RecordType, content string, excludeID int) (bool, error) {
	name = models.NormalizeDomainName(name)
	content = strings.TrimSpace(content)
	return g.any(func(r models.Record) bool {
		return r.ID != excludeID && r.Name == name && r.Type == rtype &&
			strings.EqualFold(strings.TrimSpace(r.Content), content)
	}), ctx.Err()
}

// ExistsWithContentAndTypeIn implements Gateway
func (g *MemoryGateway) ExistsWithContentAndTypeIn(ctx context.Context, content string, types []models.RecordType) (bool, error) {
	content = strings.TrimSpace(content)
	return g.any(func(r models.Record) bool {
		if !strings.EqualFold(strings.TrimSpace(r.Content), content) {
			return false
		}
		for _, t := range types {
			if r.Type == t {
				return true
			}
		}
		return false
	}), ctx.Err()
}

// TableName implements Gateway. The memory store has no tables.
func (g *MemoryGateway) TableName(logical string) string {
	return logical
}
