package timeline

import (
	"testing"
)

func scenarioEntries() []Entry {
	return []Entry{
		{ID: "e", Title: "Spring Opener", Date: "2023-02-20"},
		{ID: "c", Title: "New Year Ride", Date: "2022-01-10"},
		{ID: "a", Title: "Blue Ridge", Date: "2021-03-01"},
		{ID: "d", Title: "Summer Rally", Date: "2022-06-15"},
		{ID: "b", Title: "Fourth Run", Date: "2021-07-04"},
	}
}

func TestGroupByYearScenario(t *testing.T) {
	groups, skipped := GroupByYear(scenarioEntries())
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped entries: %v", skipped)
	}

	want := []struct {
		key     string
		members []string
	}{
		{"2021", []string{"a", "b"}},
		{"2022", []string{"c", "d"}},
		{"2023", []string{"e"}},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, w := range want {
		g := groups[i]
		if g.Key != w.key {
			t.Errorf("group %d key = %q, want %q", i, g.Key, w.key)
		}
		if g.Len() != len(w.members) {
			t.Fatalf("group %s has %d members, want %d", g.Key, g.Len(), len(w.members))
		}
		for j, id := range w.members {
			if g.Members[j].ID != id {
				t.Errorf("group %s member %d = %q, want %q", g.Key, j, g.Members[j].ID, id)
			}
		}
	}
}

func TestGroupByYearSkipsBadDates(t *testing.T) {
	entries := append(scenarioEntries(),
		Entry{ID: "x", Date: "not a date"},
		Entry{ID: "y", Date: ""},
	)
	groups, skipped := GroupByYear(entries)
	if len(skipped) != 2 {
		t.Fatalf("got %d skipped, want 2", len(skipped))
	}

	total := 0
	seen := map[string]bool{}
	for _, g := range groups {
		for _, m := range g.Members {
			if seen[m.ID] {
				t.Errorf("entry %s appears in more than one group", m.ID)
			}
			seen[m.ID] = true
			total++
		}
	}
	if total != 5 {
		t.Errorf("grouped %d entries, want 5", total)
	}
}

func TestGroupByYearEmpty(t *testing.T) {
	groups, skipped := GroupByYear(nil)
	if len(groups) != 0 || len(skipped) != 0 {
		t.Errorf("empty input should produce nothing, got %v %v", groups, skipped)
	}
}

func TestEntryTimeFormats(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
		year    int
	}{
		{"2021-03-01", false, 2021},
		{"2021-03-01T10:00:00Z", false, 2021},
		{"2021-03-01T10:00:00-05:00", false, 2021},
		{"2021-03-01 10:00", false, 2021},
		{" 2019-12-31 ", false, 2019},
		{"03/01/2021", true, 0},
		{"", true, 0},
	}
	for _, tt := range tests {
		got, err := Entry{ID: "x", Date: tt.date}.Time()
		if (err != nil) != tt.wantErr {
			t.Errorf("Time(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			continue
		}
		if err == nil && got.Year() != tt.year {
			t.Errorf("Time(%q).Year() = %d, want %d", tt.date, got.Year(), tt.year)
		}
	}
}

func TestSortStableOnTies(t *testing.T) {
	entries := []Entry{
		{ID: "b", Date: "2022-05-01"},
		{ID: "a", Date: "2022-05-01"},
	}
	sorted, _ := Sort(entries)
	if sorted[0].ID != "a" || sorted[1].ID != "b" {
		t.Errorf("ties should be ordered by ID, got %s,%s", sorted[0].ID, sorted[1].ID)
	}
}

func TestFormatDateAndTruncate(t *testing.T) {
	if got := FormatDate(Entry{Date: "2021-07-04"}); got != "Jul 2021" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate(Entry{Date: "someday"}); got != "someday" {
		t.Errorf("FormatDate fallback = %q", got)
	}

	short := "Blue Ridge Parkway"
	if got := Truncate(short, 28); got != short {
		t.Errorf("Truncate should keep short titles, got %q", got)
	}
	long := "The Very Long Autumn Foliage Ride Through The Valley"
	got := Truncate(long, 28)
	if r := []rune(got); len(r) != 27 || r[len(r)-1] != '…' {
		t.Errorf("Truncate(long) = %q", got)
	}
}

func TestGroupPhotos(t *testing.T) {
	g := Group{Members: []Entry{{ID: "a", PhotoCount: 3}, {ID: "b", PhotoCount: 4}}}
	if g.Photos() != 7 {
		t.Errorf("Photos = %d, want 7", g.Photos())
	}
	if _, ok := g.Member("b"); !ok {
		t.Error("Member(b) should be found")
	}
	if _, ok := g.Member("z"); ok {
		t.Error("Member(z) should not be found")
	}
}
