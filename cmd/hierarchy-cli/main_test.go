package main

import (
	"strings"
	"testing"
)

func TestReadRows(t *testing.T) {
	in := "event_id,address\n1,\"Marienplatz 8, München\"\n2, Rue du Fort 1, Luxembourg\nbroken\n"
	rows, err := readRows(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0] != [2]string{"1", "Marienplatz 8, München"} {
		t.Errorf("rows[0] = %q", rows[0])
	}
	if rows[1] != [2]string{"2", "Rue du Fort 1,Luxembourg"} {
		t.Errorf("rows[1] = %q", rows[1])
	}
}
