package hierarchy

import (
	"context"
	"reflect"
	"testing"

	"location-hierarchy/internal/address"
	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/slug"
	"location-hierarchy/internal/store"
	"location-hierarchy/internal/terms"
)

func mustCreate(t *testing.T, st terms.Store, name, sl, parent string, level int) *terms.Node {
	t.Helper()
	n, err := st.Create(context.Background(), "location", name, sl, parent, level)
	if err != nil {
		t.Fatalf("Create %s: %v", sl, err)
	}
	return n
}

func TestCanonical(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	eu := mustCreate(t, mem, "Europe", "europe", "", 1)
	de := mustCreate(t, mem, "Germany", "de", eu.ID, 2)
	by := mustCreate(t, mem, "Bavaria", "bavaria", de.ID, 3)
	muc := mustCreate(t, mem, "Munich", "munich", by.ID, 4)

	got, err := Canonical(ctx, mem, *eu)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if got == nil || got.ID != muc.ID {
		t.Fatalf("Canonical(europe) = %+v; want munich", got)
	}

	if got, _ := Canonical(ctx, mem, *muc); got != nil {
		t.Fatalf("Canonical(leaf) = %+v; want nil", got)
	}

	mustCreate(t, mem, "Nuremberg", "nuremberg", by.ID, 4)
	if got, _ := Canonical(ctx, mem, *by); got != nil {
		t.Fatalf("Canonical(two children) = %+v; want nil", got)
	}
	got, _ = Canonical(ctx, mem, *eu)
	if got == nil || got.ID != by.ID {
		t.Fatalf("Canonical(europe) = %+v; want bavaria", got)
	}
}

func TestAncestors(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	eu := mustCreate(t, mem, "Europe", "europe", "", 1)
	de := mustCreate(t, mem, "Germany", "de", eu.ID, 2)
	by := mustCreate(t, mem, "Bavaria", "bavaria", de.ID, 3)

	p, err := Ancestors(ctx, mem, *by)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if want := []string{"Europe", "Germany", "Bavaria"}; !reflect.DeepEqual(p.Names(), want) {
		t.Fatalf("Ancestors = %v; want %v", p.Names(), want)
	}

	// 父节点被外部删除时以当前节点为根
	orphan := terms.Node{ID: "x", Name: "Orphan", ParentID: "missing"}
	p, err = Ancestors(ctx, mem, orphan)
	if err != nil || len(p) != 1 {
		t.Fatalf("Ancestors(orphan) = %v, %v", p.Names(), err)
	}
}

func TestPreviewPathMatchesLiveRender(t *testing.T) {
	ctx := context.Background()
	levels := address.LocationLevels{
		Continent: "Europe", Country: "Germany", CountryCode: "de",
		State: "Bavaria", City: "Munich",
	}
	g := slug.New("de")
	r := builder.DefaultLevelRange()
	w := Window{2, 3}

	mem := store.NewMemory()
	b := builder.New(mem, g)
	if _, err := b.BuildAndAssociate(ctx, "42", levels, r, "location"); err != nil {
		t.Fatalf("BuildAndAssociate: %v", err)
	}
	nodes, _ := mem.ListAssociated(ctx, "42", "location")

	rd := NewRenderer(nil)
	live := rd.Render(FilterAll(Paths(nodes), w), Options{})
	preview := rd.Render(FilterAll([]Path{PreviewPath(levels, r, g)}, w), Options{})
	if live.Text != preview.Text || live.Text != "Germany > Bavaria" {
		t.Fatalf("live = %q; preview = %q", live.Text, preview.Text)
	}
}

func TestPreviewPathCollapsesSameSlug(t *testing.T) {
	levels := address.LocationLevels{
		Continent: "Europe", Country: "Luxembourg", CountryCode: "lu",
		State: "Luxembourg", City: "Luxembourg",
	}
	p := PreviewPath(levels, builder.DefaultLevelRange(), nil)
	if want := []string{"Europe", "Luxembourg", "Luxembourg"}; !reflect.DeepEqual(p.Names(), want) {
		t.Fatalf("PreviewPath = %v; want %v", p.Names(), want)
	}
}
