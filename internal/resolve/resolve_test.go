package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"location-hierarchy/internal/address"
	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/geocode"
	"location-hierarchy/internal/slug"
	"location-hierarchy/internal/store"
)

type stubGeocoder struct {
	res *geocode.Result
	err error
	// wait：阻塞直到 ctx 结束
	wait bool
}

func (g stubGeocoder) Geocode(ctx context.Context, _ string) (*geocode.Result, error) {
	if g.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return g.res, g.err
}

func munich() *geocode.Result {
	return &geocode.Result{CountryCode: "de", Components: address.Components{
		"country":      "Germany",
		"state":        "Bavaria",
		"city":         "Munich",
		"road":         "Marienplatz",
		"house_number": "8",
	}}
}

func newService(g geocode.Geocoder, mem *store.Memory) *Service {
	return New(g, builder.New(mem, slug.New("de")), Options{Namespace: "location", Timeout: 50 * time.Millisecond})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	out := newService(stubGeocoder{res: munich()}, mem).Resolve(ctx, "7", "Marienplatz 8, München")
	if out.Aborted || out.Reason != ReasonOK {
		t.Fatalf("outcome = %+v", out)
	}
	if len(out.Chain) != 6 {
		t.Fatalf("chain = %v; want 6 ids", out.Chain)
	}
	if out.Levels.Continent != "Europe" || out.Levels.StreetNumber != "Marienplatz 8" {
		t.Fatalf("levels = %+v", out.Levels)
	}
	got, _ := mem.ListAssociated(ctx, "7", "location")
	if len(got) != 6 {
		t.Fatalf("associated = %d; want 6", len(got))
	}
}

func TestResolveFailuresKeepAssociations(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	if out := newService(stubGeocoder{res: munich()}, mem).Resolve(ctx, "7", "Marienplatz 8"); out.Aborted {
		t.Fatalf("seed outcome = %+v", out)
	}

	tests := []struct {
		name   string
		g      stubGeocoder
		addr   string
		reason string
	}{
		{"empty address", stubGeocoder{}, "   ", ReasonEmptyAddress},
		{"no result", stubGeocoder{err: geocode.ErrNoResult}, "nowhere", ReasonNoResult},
		{"network error", stubGeocoder{err: errors.New("connection refused")}, "x", ReasonGeocodeError},
		{"timeout", stubGeocoder{wait: true}, "slow", ReasonGeocodeError},
		{"no usable levels", stubGeocoder{res: &geocode.Result{Components: address.Components{"road": "Nowhere"}}}, "x", ReasonEmptyChain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newService(tt.g, mem).Resolve(ctx, "7", tt.addr)
			if !out.Aborted || out.Reason != tt.reason {
				t.Fatalf("outcome = %+v; want reason %s", out, tt.reason)
			}
			if got, _ := mem.ListAssociated(ctx, "7", "location"); len(got) != 6 {
				t.Fatalf("associations changed: %d", len(got))
			}
		})
	}
}

func TestApply(t *testing.T) {
	mem := store.NewMemory()
	s := newService(stubGeocoder{}, mem)
	out := s.Apply(context.Background(), "9", address.LocationLevels{Continent: "Europe", Country: "Austria", CountryCode: "at"})
	if out.Aborted || len(out.Chain) != 2 {
		t.Fatalf("outcome = %+v", out)
	}
}
