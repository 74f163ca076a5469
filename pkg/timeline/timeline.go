// Package timeline defines the chronological entries (rides, albums) shown
// on the road and their grouping into calendar years.
//
// Groups are derived data: they are rebuilt from the current entry list on
// every frame and never owned by the visualizer.
package timeline

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted formats for Entry.Date, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Entry is one chronological event rendered on the timeline.
type Entry struct {
	ID          string `json:"id" yaml:"id" bson:"_id"`
	Title       string `json:"title" yaml:"title" bson:"title"`
	Date        string `json:"event_date" yaml:"event_date" bson:"event_date"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	CoverURL    string `json:"cover_photo_url,omitempty" yaml:"cover_photo_url,omitempty" bson:"cover_photo_url,omitempty"`
	Location    string `json:"location_name,omitempty" yaml:"location_name,omitempty" bson:"location_name,omitempty"`
	PhotoCount  int    `json:"photo_count,omitempty" yaml:"photo_count,omitempty" bson:"photo_count,omitempty"`
}

// Time parses the entry date. Dates without a zone are read as UTC.
func (e Entry) Time() (time.Time, error) {
	s := strings.TrimSpace(e.Date)
	if s == "" {
		return time.Time{}, fmt.Errorf("entry %q: empty date", e.ID)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("entry %q: unparseable date %q", e.ID, e.Date)
}

// Group is the set of entries sharing a calendar year.
type Group struct {
	Key     string  `json:"key"`
	Year    int     `json:"year"`
	Members []Entry `json:"members"`
}

// Len returns the number of member entries.
func (g Group) Len() int { return len(g.Members) }

// Photos returns the total photo count of all members.
func (g Group) Photos() int {
	n := 0
	for _, m := range g.Members {
		n += m.PhotoCount
	}
	return n
}

// Member returns the member with the given ID.
func (g Group) Member(id string) (Entry, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Entry{}, false
}

// YearKey returns the group key for a year.
func YearKey(year int) string { return strconv.Itoa(year) }

// Skipped describes an entry excluded from grouping.
type Skipped struct {
	Entry Entry
	Err   error
}

type dated struct {
	entry Entry
	at    time.Time
}

// Sort returns the entries with a parseable date in ascending time order
// (ties broken by ID) together with those that were excluded.
func Sort(entries []Entry) ([]Entry, []Skipped) {
	valid, skipped := parseAll(entries)
	out := make([]Entry, len(valid))
	for i, d := range valid {
		out[i] = d.entry
	}
	return out, skipped
}

// GroupByYear groups entries by the calendar year of their date. Groups are
// ordered by year and members by timestamp. Entries whose date cannot be
// parsed are returned as skipped instead of failing the whole grouping.
func GroupByYear(entries []Entry) ([]Group, []Skipped) {
	valid, skipped := parseAll(entries)

	var groups []Group
	for _, d := range valid {
		year := d.at.Year()
		if n := len(groups); n == 0 || groups[n-1].Year != year {
			groups = append(groups, Group{Key: YearKey(year), Year: year})
		}
		last := &groups[len(groups)-1]
		last.Members = append(last.Members, d.entry)
	}
	return groups, skipped
}

func parseAll(entries []Entry) ([]dated, []Skipped) {
	valid := make([]dated, 0, len(entries))
	var skipped []Skipped
	for _, e := range entries {
		at, err := e.Time()
		if err != nil {
			skipped = append(skipped, Skipped{Entry: e, Err: err})
			continue
		}
		valid = append(valid, dated{entry: e, at: at})
	}
	slices.SortStableFunc(valid, func(a, b dated) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.entry.ID, b.entry.ID)
	})
	return valid, skipped
}

// FormatDate renders an entry date as "Jan 2006", or the raw value when it
// does not parse.
func FormatDate(e Entry) string {
	t, err := e.Time()
	if err != nil {
		return e.Date
	}
	return t.Format("Jan 2006")
}

// Truncate shortens s to at most max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	keep := max - 2
	if keep < 1 {
		keep = 1
	}
	return string(r[:keep]) + "…"
}
