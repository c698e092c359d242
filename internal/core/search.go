package core

import "strings"

// ShowAll is the reserved search term that returns every record unfiltered.
// It is matched exactly and case-sensitively.
const ShowAll = "showall"

// expandWindow is the size of a search expansion window: the match itself
// plus the records that follow it.
const expandWindow = 3

// Expand returns each record whose any present value contains query
// (case-insensitive), immediately followed by up to two of the records that
// follow it in the original order. Windows of neighbouring matches may
// overlap, in which case records appear more than once.
//
// The ShowAll term returns records unchanged.
func Expand(records []Record, query string) []Record {
	if query == ShowAll {
		return records
	}

	needle := strings.ToLower(query)
	var out []Record
	for i, rec := range records {
		if !rec.contains(needle) {
			continue
		}
		end := min(i+expandWindow, len(records))
		out = append(out, records[i:end]...)
	}
	return out
}

// Filter returns the records whose any present value contains query
// (case-insensitive), without neighbours. An empty query or ShowAll
// returns records unchanged.
func Filter(records []Record, query string) []Record {
	if query == "" || query == ShowAll {
		return records
	}

	needle := strings.ToLower(query)
	var out []Record
	for _, rec := range records {
		if rec.contains(needle) {
			out = append(out, rec)
		}
	}
	return out
}
