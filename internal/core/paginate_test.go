package core

import (
	"strconv"
	"testing"
)

func numbered(n int) []Record {
	header := Header{"Invoice"}
	out := make([]Record, n)
	for i := range out {
		out[i] = NewRecord(i+1, header, []string{strconv.Itoa(i + 1)})
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 69, 0},
		{1, 69, 1},
		{69, 69, 1},
		{70, 69, 2},
		{200, 69, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestPaginate_LastPage(t *testing.T) {
	p := Paginate(numbered(200), DefaultPageSize, 3)

	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if len(p.Rows) != 62 {
		t.Fatalf("len(Rows) = %d, want 62", len(p.Rows))
	}
	if p.Rows[0].Row != 139 || p.Rows[61].Row != 200 {
		t.Errorf("page 3 spans rows %d-%d, want 139-200", p.Rows[0].Row, p.Rows[61].Row)
	}
	if p.HasNext() || !p.HasPrev() {
		t.Errorf("HasNext = %v, HasPrev = %v, want false, true", p.HasNext(), p.HasPrev())
	}
}

// Concatenating every page reproduces the results exactly once, in order.
func TestPaginate_Partition(t *testing.T) {
	for _, count := range []int{0, 1, 68, 69, 70, 138, 200} {
		results := numbered(count)
		total := TotalPages(count, DefaultPageSize)

		var joined []Record
		for page := 1; page <= total; page++ {
			joined = append(joined, Paginate(results, DefaultPageSize, page).Rows...)
		}
		if len(joined) != count {
			t.Errorf("count %d: pages hold %d rows", count, len(joined))
			continue
		}
		for i, rec := range joined {
			if rec.Row != i+1 {
				t.Errorf("count %d: position %d holds row %d", count, i, rec.Row)
				break
			}
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	results := numbered(10)
	for _, page := range []int{0, -2, 2, 99} {
		if p := Paginate(results, DefaultPageSize, page); len(p.Rows) != 0 {
			t.Errorf("Paginate(page %d) = %d rows, want 0", page, len(p.Rows))
		}
	}

	empty := Paginate(nil, DefaultPageSize, 1)
	if len(empty.Rows) != 0 || empty.TotalPages != 0 {
		t.Errorf("Paginate(nil) = %d rows, %d pages, want 0, 0", len(empty.Rows), empty.TotalPages)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{1, 3, 1},
		{3, 3, 3},
		{4, 3, 3},
		{0, 3, 1},
		{-1, 3, 1},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestPage_SeparatorAfter(t *testing.T) {
	p := Paginate(numbered(7), DefaultPageSize, 1)
	want := map[int]bool{2: true, 5: true}
	for i := range p.Rows {
		if got := p.SeparatorAfter(i); got != want[i] {
			t.Errorf("SeparatorAfter(%d) = %v, want %v", i, got, want[i])
		}
	}

	six := Paginate(numbered(6), DefaultPageSize, 1)
	if six.SeparatorAfter(5) {
		t.Error("SeparatorAfter(last row) = true, want false")
	}
}
