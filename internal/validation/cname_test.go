package validation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"rrguard.io/internal/models"
	"rrguard.io/internal/storage"
)

func TestCNAME_Success(t *testing.T) {
	e := newTestEngine(t, storage.NewMemoryGateway(), "")

	r := mustValidate(t, e, models.Candidate{
		Type:    "CNAME",
		Name:    "WWW.Example.com.",
		Content: "Web.Example.NET.",
	})
	if !r.IsValid() {
		t.Fatalf("rejected: %s", r.Message())
	}

	want := models.ValidatedRecord{Name: "www.example.com", Content: "web.example.net", Priority: 0, TTL: 86400}
	if r.Data() != want {
		t.Errorf("got %+v, want %+v", r.Data(), want)
	}
}

func TestCNAME_PriorityCoercion(t *testing.T) {
	e := newTestEngine(t, storage.NewMemoryGateway(), "")

	tests := []struct {
		prio  string
		valid bool
	}{
		{"", true},
		{"0", true},
		{"5", false},
		{"x", false},
	}

	for _, tt := range tests {
		r := mustValidate(t, e, models.Candidate{
			Type:     "CNAME",
			Name:     "www.example.com",
			Content:  "example.com",
			Priority: tt.prio,
		})
		if r.IsValid() != tt.valid {
			t.Errorf("prio %q valid = %v, want %v", tt.prio, r.IsValid(), tt.valid)
			continue
		}
		if tt.valid && r.Data().Priority != 0 {
			t.Errorf("prio %q resolved to %d", tt.prio, r.Data().Priority)
		}
	}
}

func TestCNAME_UpdateExclusion(t *testing.T) {
	gw := storage.NewMemoryGateway(
		models.Record{ID: 5, Name: "alias.example.com", Type: models.RecordTypeCNAME, Content: "old.example.com"},
		models.Record{ID: 7, Name: "taken.example.com", Type: models.RecordTypeA, Content: "192.0.2.7"},
	)
	e := newTestEngine(t, gw, "")

	tests := []struct {
		name     string
		owner    string
		recordID int
		valid    bool
	}{
		{"updating itself", "alias.example.com", 5, true},
		{"creating duplicate", "alias.example.com", 0, false},
		{"other record id", "alias.example.com", 6, false},
		{"unrelated record at name", "taken.example.com", 0, false},
		{"unrelated record with other id", "taken.example.com", 5, false},
		{"converting the record itself", "taken.example.com", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustValidate(t, e, models.Candidate{
				Type:     "CNAME",
				Name:     tt.owner,
				Content:  "new.example.com",
				RecordID: tt.recordID,
			})
			if r.IsValid() != tt.valid {
				t.Errorf("valid = %v, want %v (%+v)", r.IsValid(), tt.valid, r)
			}
		})
	}
}

func TestCNAME_MXAndNSTargetGuard(t *testing.T) {
	for _, rtype := range []models.RecordType{models.RecordTypeMX, models.RecordTypeNS} {
		t.Run(rtype.String(), func(t *testing.T) {
			gw := storage.NewMemoryGateway(
				models.Record{Name: "example.com", Type: rtype, Content: "alias.example.com"},
			)
			e := newTestEngine(t, gw, "")

			r := mustValidate(t, e, models.Candidate{Type: "CNAME", Name: "alias.example.com", Content: "host.example.net"})
			if r.IsValid() {
				t.Fatal("CNAME accepted at the target of an existing " + rtype.String())
			}

			r = mustValidate(t, e, models.Candidate{Type: "CNAME", Name: "other.example.com", Content: "host.example.net"})
			if !r.IsValid() {
				t.Errorf("unrelated CNAME rejected: %s", r.Message())
			}
		})
	}
}

func TestCNAME_Rejections(t *testing.T) {
	e := newTestEngine(t, storage.NewMemoryGateway(), "")

	tests := []struct {
		name string
		c    models.Candidate
	}{
		{"single label target", models.Candidate{Name: "www.example.com", Content: "www"}},
		{"numeric tld", models.Candidate{Name: "www.example.com", Content: "example.c1"}},
		{"wildcard target", models.Candidate{Name: "www.example.com", Content: "*.example.com"}},
		{"bad owner", models.Candidate{Name: "bad_name.example.com", Content: "example.com"}},
		{"zone apex", models.Candidate{Name: "example.com", Content: "web.example.net", ZoneName: "example.com."}},
		{"bad ttl", models.Candidate{Name: "www.example.com", Content: "example.com", TTL: "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.c.Type = "cname"
			if r := mustValidate(t, e, tt.c); r.IsValid() {
				t.Errorf("accepted %+v as %+v", tt.c, r.Data())
			}
		})
	}

	r := mustValidate(t, e, models.Candidate{Type: "CNAME", Name: "example.com", Content: "web.example.net"})
	if !r.IsValid() {
		t.Errorf("apex rule applied without zone context: %s", r.Message())
	}
}

func TestCNAME_QueryOrder(t *testing.T) {
	gw := &recordingGateway{Gateway: storage.NewMemoryGateway()}
	e := newTestEngine(t, gw, "")

	// the owner name is invalid, but the record checks still run first
	r := mustValidate(t, e, models.Candidate{Type: "CNAME", Name: "bad_name.example.com", Content: "example.com"})
	if r.IsValid() {
		t.Fatal("invalid owner accepted")
	}

	want := []string{"name-type-not:CNAME", "name-type:CNAME", "content-type-in"}
	if !reflect.DeepEqual(gw.calls, want) {
		t.Errorf("queries = %v, want %v", gw.calls, want)
	}
}

func TestCNAME_Exclusivity(t *testing.T) {
	gw := storage.NewMemoryGateway(
		models.Record{ID: 1, Name: "www.example.com", Type: models.RecordTypeA, Content: "192.0.2.1"},
		models.Record{ID: 2, Name: "alias.example.com", Type: models.RecordTypeCNAME, Content: "www.example.com"},
	)
	e := newTestEngine(t, gw, "[dnssec]\nenabled = true\n")

	tests := []struct {
		name  string
		c     models.Candidate
		valid bool
	}{
		{"cname next to A", models.Candidate{Type: "CNAME", Name: "www.example.com", Content: "web.example.net"}, false},
		{"A next to cname", models.Candidate{Type: "A", Name: "alias.example.com", Content: "192.0.2.2"}, false},
		{"TXT next to cname", models.Candidate{Type: "TXT", Name: "alias.example.com", Content: `"hello"`}, false},
		{"HINFO next to cname", models.Candidate{Type: "HINFO", Name: "alias.example.com", Content: `"PC" "Linux"`}, false},
		{"NSEC next to cname", models.Candidate{Type: "NSEC", Name: "alias.example.com", Content: "zzz.example.com. CNAME RRSIG NSEC"}, true},
		{"cname replacing itself", models.Candidate{Type: "CNAME", Name: "alias.example.com", Content: "web.example.net", RecordID: 2}, true},
		{"A replacing the cname", models.Candidate{Type: "A", Name: "alias.example.com", Content: "192.0.2.2", RecordID: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustValidate(t, e, tt.c)
			if r.IsValid() != tt.valid {
				t.Errorf("valid = %v, want %v (%+v)", r.IsValid(), tt.valid, r)
			}
		})
	}
}

func TestCNAME_GatewayFailure(t *testing.T) {
	e := newTestEngine(t, brokenGateway{}, "")

	_, err := e.Validate(context.Background(), models.Candidate{Type: "CNAME", Name: "www.example.com", Content: "example.com"})
	if !errors.Is(err, ErrGatewayFailure) {
		t.Fatalf("err = %v, want ErrGatewayFailure", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("err = %v, want the gateway cause wrapped", err)
	}
}

func TestCNAME_InternationalizedOwner(t *testing.T) {
	const settings = "[dns]\nallow_idn = true\n"
	const ascii = "xn--bcher-kva.example.com"

	tests := []struct {
		name    string
		records []models.Record
		valid   bool
	}{
		{"no conflicts", nil, true},
		{"address at the A-label", []models.Record{
			{ID: 1, Name: ascii, Type: models.RecordTypeA, Content: "192.0.2.1"},
		}, false},
		{"existing cname at the A-label", []models.Record{
			{ID: 1, Name: ascii, Type: models.RecordTypeCNAME, Content: "www.example.com"},
		}, false},
		{"mx targets the A-label", []models.Record{
			{ID: 1, Name: "example.com", Type: models.RecordTypeMX, Content: ascii, Priority: 10},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, storage.NewMemoryGateway(tt.records...), settings)

			r := mustValidate(t, e, models.Candidate{
				Type:    "CNAME",
				Name:    "Bücher.example.com",
				Content: "web.example.net",
			})
			if r.IsValid() != tt.valid {
				t.Fatalf("valid = %v, want %v", r.IsValid(), tt.valid)
			}
			if tt.valid && r.Data().Name != ascii {
				t.Errorf("name = %q, want %q", r.Data().Name, ascii)
			}
		})
	}
}

func TestHostnameNormalize(t *testing.T) {
	idn := NewHostnameValidator(0, true, true)
	plain := NewHostnameValidator(0, true, false)

	tests := []struct {
		v    *HostnameValidator
		in   string
		want string
	}{
		{idn, " Bücher.Example.com. ", "xn--bcher-kva.example.com"},
		{idn, ".", "."},
		{plain, "Bücher.Example.com", "bücher.example.com"},
		{NewHostnameValidator(0, false, false), "WWW.Example.com.", "WWW.Example.com"},
	}

	for _, tt := range tests {
		if got := tt.v.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
