package hierarchy

import (
	"reflect"
	"testing"
)

func TestFilter(t *testing.T) {
	path := []string{"Europe", "Germany", "Bavaria", "Munich"}
	tests := []struct {
		name string
		w    Window
		want []string
	}{
		{"middle", Window{2, 3}, []string{"Germany", "Bavaria"}},
		{"first", Window{1, 1}, []string{"Europe"}},
		{"beyond", Window{5, 6}, nil},
		{"full", DefaultWindow(), path},
		{"end clipped", Window{3, 9}, []string{"Bavaria", "Munich"}},
		{"start below one", Window{-2, 2}, []string{"Europe", "Germany"}},
		{"inverted", Window{3, 1}, []string{"Bavaria"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(path, tt.w)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Filter(%v) = %v; want %v", tt.w, got, tt.want)
			}
		})
	}
}

func TestFilterAllDropsEmpty(t *testing.T) {
	long := Path(munichChain())
	short := Path(munichChain()[:2])
	got := FilterAll([]Path{long, short}, Window{3, 4})
	if len(got) != 1 {
		t.Fatalf("len = %d; want 1", len(got))
	}
	if names := got[0].Names(); !reflect.DeepEqual(names, []string{"Bavaria", "Munich"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestWindowClamp(t *testing.T) {
	if got := (Window{0, 0}).Clamp(); got != (Window{1, 1}) {
		t.Fatalf("Clamp = %+v", got)
	}
	if got := (Window{2, 5}).Clamp(); got != (Window{2, 5}) {
		t.Fatalf("Clamp = %+v", got)
	}
}
