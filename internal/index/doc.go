// Package index turns a human-authored bank description into sample entries.
//
// The description is scanned line by line. CreateDataBank("core", <rate>, ...)
// switches the active bank and AddSampleData("<name>", <offset>, <length>)
// appends an entry to it. Whitespace inside either call is ignored and any
// surrounding text is tolerated. Sample declarations that appear before any
// bank declaration are counted in Stats.Orphaned and otherwise dropped, as are
// declarations whose numbers overflow 64 bits (Stats.Malformed).
// Numeric ranges are not checked here; the extractor owns bounds checks.
package index
