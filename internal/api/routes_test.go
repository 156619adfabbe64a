package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"location-hierarchy/internal/address"
	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/display"
	"location-hierarchy/internal/geocode"
	"location-hierarchy/internal/hierarchy"
	"location-hierarchy/internal/resolve"
	"location-hierarchy/internal/slug"
	"location-hierarchy/internal/store"
)

type stubGeocoder struct{}

func (stubGeocoder) Geocode(_ context.Context, addr string) (*geocode.Result, error) {
	if strings.Contains(addr, "nowhere") {
		return nil, geocode.ErrNoResult
	}
	return &geocode.Result{CountryCode: "de", Components: address.Components{
		"country": "Germany", "state": "Bavaria", "city": "Munich",
	}}, nil
}

func newMux() *http.ServeMux {
	mem := store.NewMemory()
	g := slug.New("en")
	b := builder.New(mem, g)
	return BuildRoutes(Deps{
		Resolver: resolve.New(stubGeocoder{}, b, resolve.Options{}),
		Surface:  display.New(display.Config{Store: mem, Link: hierarchy.ArchiveLinker("http://localhost:8080"), Separator: " > "}),
		Slugs:    g,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestResolveThenRender(t *testing.T) {
	mux := newMux()

	rec := do(t, mux, http.MethodPost, "/events/5/location", `{"address":"Marienplatz, München"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rec.Code, rec.Body)
	}
	var out resolve.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Aborted || len(out.Chain) != 4 {
		t.Fatalf("outcome = %+v", out)
	}

	rec = do(t, mux, http.MethodGet, "/events/5/hierarchy?venue=Conference+Center", "")
	want := `<div class="wp-block-location-hierarchy"><p>Europe &gt; Germany &gt; Bavaria &gt; Munich &gt; Conference Center</p></div>`
	if rec.Body.String() != want {
		t.Fatalf("body = %q; want %q", rec.Body.String(), want)
	}
	if ct := rec.Header().Get("content-type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content-type = %q", ct)
	}

	rec = do(t, mux, http.MethodGet, "/events/5/hierarchy?type=page", "")
	if rec.Header().Get("x-hierarchy-outcome") != display.OutcomeScopeMismatch {
		t.Fatalf("outcome = %q", rec.Header().Get("x-hierarchy-outcome"))
	}
}

func TestResolveFailureIsSoft(t *testing.T) {
	mux := newMux()
	rec := do(t, mux, http.MethodPost, "/events/5/location", `{"address":"nowhere"}`)
	var out resolve.Outcome
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if rec.Code != http.StatusOK || !out.Aborted || out.Reason != resolve.ReasonNoResult {
		t.Fatalf("status = %d; outcome = %+v", rec.Code, out)
	}
	if rec := do(t, mux, http.MethodPost, "/events/5/location", `{`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", rec.Code)
	}
}

func TestPreview(t *testing.T) {
	mux := newMux()
	body := `{"levels":{"continent":"Europe","country":"Germany","country_code":"de","state":"Bavaria","city":"Munich"},"start":2,"end":3,"links":true}`
	rec := do(t, mux, http.MethodPost, "/preview", body)
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["text"] != "Germany > Bavaria" {
		t.Fatalf("text = %q", got["text"])
	}
	if !strings.Contains(got["html"], `href="http://localhost:8080/location/de/"`) {
		t.Fatalf("html = %q", got["html"])
	}

	rec = do(t, mux, http.MethodPost, "/preview", `{"levels":{}}`)
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got["text"] != display.Placeholder {
		t.Fatalf("empty preview text = %q", got["text"])
	}
}

func TestTerm(t *testing.T) {
	mux := newMux()
	do(t, mux, http.MethodPost, "/events/5/location", `{"address":"Munich"}`)

	rec := do(t, mux, http.MethodGet, "/terms/de", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var a display.Archive
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.Canonical == nil || a.Canonical.Slug != "munich" {
		t.Fatalf("archive = %+v", a)
	}
	if rec := do(t, mux, http.MethodGet, "/terms/atlantis", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}
