package park

import (
	"testing"
	"time"
)

func TestGridLocations_416Cells(t *testing.T) {
	locs := GridLocations()
	if len(locs) != 416 {
		t.Fatalf("expected 416 cells, got %d", len(locs))
	}
	if locs[0] != "A1" || locs[15] != "A16" || locs[16] != "B1" || locs[415] != "Z16" {
		t.Fatalf("unexpected ordering: %v ... %v", locs[:3], locs[413:])
	}

	seen := map[string]struct{}{}
	for _, l := range locs {
		if _, dup := seen[l]; dup {
			t.Fatalf("duplicated location %s", l)
		}
		seen[l] = struct{}{}
		if !ValidLocation(l) {
			t.Fatalf("generated location %s not valid", l)
		}
	}
}

func TestValidLocation(t *testing.T) {
	for _, bad := range []string{"", "A", "A0", "A17", "a1", "1A", "AA1", "B7x"} {
		if ValidLocation(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestLessLocation_NumericRows(t *testing.T) {
	if !LessLocation("A2", "A10") {
		t.Fatalf("A2 should sort before A10")
	}
	if !LessLocation("A16", "B1") {
		t.Fatalf("A16 should sort before B1")
	}
}

func TestNextMaintenance_Adds30Days(t *testing.T) {
	from := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	got := NextMaintenance(from)
	want := time.Date(2024, 2, 14, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDino_DigestedAt(t *testing.T) {
	d := Dino{DigestionPeriodInHours: 4}
	if _, ok := d.DigestedAt(); ok {
		t.Fatalf("never-fed dino has no digestion end")
	}

	fed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	d.LastFed = &fed
	end, ok := d.DigestedAt()
	if !ok || !end.Equal(fed.Add(4*time.Hour)) {
		t.Fatalf("unexpected digestion end %s (ok=%v)", end, ok)
	}
}
