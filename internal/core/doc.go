// Package core provides the business logic for browsing the delivery ledger.
//
// This package has no UI dependencies and can be used by the web server, the
// CLI, or tests without modification.
//
// # Pipeline
//
// Every user action recomputes its view from scratch through pure functions:
//
//	sheet.Grid --MapGrid--> Dataset --Expand/Filter--> []Record --Paginate--> Page
//
// [Service] is the only stateful piece. It fetches grids from a [sheet.Source]
// and remembers the last good [Dataset] per range so that a failed fetch can
// fall back to stale-but-consistent data.
//
// # Search
//
// The public search ([Expand]) returns each matching record followed by the
// next two records of the sheet, because every consumer occupies a block of
// three rows in the ledger. Overlapping blocks are not de-duplicated.
// The admin view uses the plain [Filter]. The [ShowAll] term bypasses both.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - SRC001-SRC002: Source errors (fetch, empty header)
//   - REN001: Invoice rendering errors
//   - EXP001-EXP003: Export errors (missing fields, archive, busy)
//   - VAL001-VAL004: Request validation errors
//   - AUTH001, REQ001-REQ002, RATE001: Access and request errors
package core
