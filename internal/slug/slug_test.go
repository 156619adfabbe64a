package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		locale string
		in     string
		want   string
	}{
		{"en", "Munich", "munich"},
		{"en", "  North   America ", "north-america"},
		{"en", "München", "munchen"},
		{"de", "München", "muenchen"},
		{"de_DE", "Straße des 17. Juni", "strasse-des-17-juni"},
		{"de-AT", "Großglockner Hochalpenstraße 1", "grossglockner-hochalpenstrasse-1"},
		{"en", "Straße", "strasse"},
		{"fr", "Île-de-France", "ile-de-france"},
		{"en", "Provence-Alpes-Côte d'Azur", "provence-alpes-cote-d-azur"},
		{"da", "Århus", "aarhus"},
		{"no", "Tromsø", "tromsoe"},
		{"en", "São Paulo", "sao-paulo"},
		{"en", "--Rio--", "rio"},
		{"en", "Zürich", "zurich"},
	}
	for _, tt := range tests {
		g := New(tt.locale)
		if got := g.Make(tt.in); got != tt.want {
			t.Errorf("New(%q).Make(%q) = %q; want %q", tt.locale, tt.in, got, tt.want)
		}
	}
}

func TestMakeNonLatin(t *testing.T) {
	got := New("en").Make("Москва")
	if got != "moskva" {
		t.Errorf("Make(%q) = %q; want %q", "Москва", got, "moskva")
	}
}

func TestMakeDeterministic(t *testing.T) {
	g := New("de")
	for _, in := range []string{"Köln", "北京", "☃☃", "Prenzlauer Berg"} {
		a, b := g.Make(in), g.Make(in)
		if a != b {
			t.Errorf("Make(%q) not deterministic: %q vs %q", in, a, b)
		}
		if a == "" {
			t.Errorf("Make(%q) returned empty slug", in)
		}
	}
}

func TestMakeFallback(t *testing.T) {
	g := New("en")
	got := g.Make("!!!")
	if !strings.HasPrefix(got, "t-") {
		t.Fatalf("Make(%q) = %q; want hash fallback", "!!!", got)
	}
	if got != Fallback("!!!") {
		t.Errorf("Make(%q) = %q; want %q", "!!!", got, Fallback("!!!"))
	}
	if Fallback("a") == Fallback("b") {
		t.Errorf("Fallback collides for distinct names")
	}
	if g.Make("   ") != "" {
		t.Errorf("Make(blank) = %q; want empty", g.Make("   "))
	}
}

func TestCountry(t *testing.T) {
	if got := Country(" DE "); got != "de" {
		t.Errorf("Country(%q) = %q; want %q", " DE ", got, "de")
	}
}

func TestLocale(t *testing.T) {
	tests := []struct{ in, want string }{
		{"de_DE", "de"},
		{"de-AT", "de"},
		{"no", "nb"},
		{"en", "en"},
	}
	for _, tt := range tests {
		if got := New(tt.in).Locale(); got != tt.want {
			t.Errorf("New(%q).Locale() = %q; want %q", tt.in, got, tt.want)
		}
	}
}
