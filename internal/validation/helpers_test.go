package validation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rrguard.io/internal/config"
	"rrguard.io/internal/models"
	"rrguard.io/internal/storage"
)

var errStoreDown = errors.New("connection refused")

// brokenGateway fails every query
type brokenGateway struct{}

func (brokenGateway) ExistsWithNameAndTypeNot(context.Context, string, models.RecordType, int) (bool, error) {
	return false, errStoreDown
}

func (brokenGateway) ExistsWithNameAndType(context.Context, string, models.RecordType, int) (bool, error) {
	return false, errStoreDown
}

func (brokenGateway) ExistsWithNameTypeAndContent(context.Context, string, models.RecordType, string, int) (bool, error) {
	return false, errStoreDown
}

func (brokenGateway) ExistsWithContentAndTypeIn(context.Context, string, []models.RecordType) (bool, error) {
	return false, errStoreDown
}

func (brokenGateway) TableName(logical string) string { return logical }

// recordingGateway remembers the queries issued against it
type recordingGateway struct {
	storage.Gateway

	mu    sync.Mutex
	calls []string
}

func (g *recordingGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *recordingGateway) ExistsWithNameAndTypeNot(ctx context.Context, name string, t models.RecordType, id int) (bool, error) {
	g.record("name-type-not:" + t.String())
	return g.Gateway.ExistsWithNameAndTypeNot(ctx, name, t, id)
}

func (g *recordingGateway) ExistsWithNameAndType(ctx context.Context, name string, t models.RecordType, id int) (bool, error) {
	g.record("name-type:" + t.String())
	return g.Gateway.ExistsWithNameAndType(ctx, name, t, id)
}

func (g *recordingGateway) ExistsWithNameTypeAndContent(ctx context.Context, name string, t models.RecordType, content string, id int) (bool, error) {
	g.record("name-type-content:" + t.String())
	return g.Gateway.ExistsWithNameTypeAndContent(ctx, name, t, content, id)
}

func (g *recordingGateway) ExistsWithContentAndTypeIn(ctx context.Context, content string, types []models.RecordType) (bool, error) {
	g.record("content-type-in")
	return g.Gateway.ExistsWithContentAndTypeIn(ctx, content, types)
}

func newTestEngine(t *testing.T, gw storage.Gateway, settings string) *Engine {
	t.Helper()

	s, err := config.ParseSettings([]byte(settings))
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}

	e, err := NewEngine(s, gw)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func mustValidate(t *testing.T, e *Engine, c models.Candidate) Result[models.ValidatedRecord] {
	t.Helper()

	if c.DefaultTTL == 0 {
		c.DefaultTTL = 86400
	}
	r, err := e.Validate(context.Background(), c)
	if err != nil {
		t.Fatalf("Validate(%+v): %v", c, err)
	}
	return r
}
