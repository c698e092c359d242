package core

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/ledgerview/internal/sheet"
)

func scenarioA(t *testing.T) Dataset {
	t.Helper()
	ds, err := MapGrid(sheet.Grid{
		{"Invoice", "Consumer Name", "Days"},
		{"1", "Alice", "5"},
		{"2", "Bob", "3"},
		{"3", "Carol", "7"},
		{"4", "Dan", "2"},
	})
	if err != nil {
		t.Fatalf("MapGrid() error = %v", err)
	}
	return ds
}

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		v, _ := r.Get("Consumer Name")
		out = append(out, v)
	}
	return out
}

func TestExpand(t *testing.T) {
	ds := scenarioA(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"match plus two followers", "alice", []string{"Alice", "Bob", "Carol"}},
		{"case insensitive", "ALICE", []string{"Alice", "Bob", "Carol"}},
		{"window truncated at end", "dan", []string{"Dan"}},
		{"second to last", "carol", []string{"Carol", "Dan"}},
		{"overlapping windows keep duplicates", "a", []string{
			"Alice", "Bob", "Carol",
			"Carol", "Dan",
			"Dan",
		}},
		{"matches any column", "7", []string{"Carol", "Dan"}},
		{"no match", "zed", nil},
		{"showall", ShowAll, []string{"Alice", "Bob", "Carol", "Dan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(ds.Records, tt.query)
			if len(tt.want) == 0 {
				if len(got) != 0 {
					t.Errorf("Expand(%q) = %v, want empty", tt.query, names(got))
				}
				return
			}
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("Expand(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestExpand_ShowAllIsCaseSensitive(t *testing.T) {
	ds := scenarioA(t)
	if got := Expand(ds.Records, "ShowAll"); len(got) != 0 {
		t.Errorf("Expand(ShowAll mixed case) = %v, want empty", names(got))
	}
}

func TestExpand_EmptyDataset(t *testing.T) {
	if got := Expand(nil, "alice"); len(got) != 0 {
		t.Errorf("Expand(nil) = %d records, want 0", len(got))
	}
	if got := Expand(nil, ShowAll); len(got) != 0 {
		t.Errorf("Expand(nil, showall) = %d records, want 0", len(got))
	}
}

// Every matching record is in the result and is followed by its original
// successors, up to two of them.
func TestExpand_WindowMembership(t *testing.T) {
	var records []Record
	header := Header{"Consumer Name"}
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("c%02d", i)
		if i%7 == 0 {
			name += "-match"
		}
		records = append(records, NewRecord(i+1, header, []string{name}))
	}

	got := Expand(records, "match")
	for i, rec := range records {
		if !rec.contains("match") {
			continue
		}
		found := false
		for j, r := range got {
			if r.Row != rec.Row {
				continue
			}
			found = true
			for k := 1; k < expandWindow && i+k < len(records); k++ {
				if j+k >= len(got) || got[j+k].Row != records[i+k].Row {
					t.Errorf("match at row %d not followed by row %d", rec.Row, records[i+k].Row)
				}
			}
			break
		}
		if !found {
			t.Errorf("match at row %d missing from result", rec.Row)
		}
	}
}

func TestFilter(t *testing.T) {
	ds := scenarioA(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Alice", "Bob", "Carol", "Dan"}},
		{ShowAll, []string{"Alice", "Bob", "Carol", "Dan"}},
		{"bob", []string{"Bob"}},
		{"a", []string{"Alice", "Carol", "Dan"}},
	}
	for _, tt := range tests {
		got := names(Filter(ds.Records, tt.query))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
	if got := Filter(ds.Records, "zed"); len(got) != 0 {
		t.Errorf("Filter(zed) = %v, want empty", names(got))
	}
}
