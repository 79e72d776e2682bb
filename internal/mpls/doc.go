// Package mpls decodes Blu-ray movie playlist (.mpls) files.
//
// Only the structures needed to recover play items, stream metadata and
// playlist marks are decoded; extension data, sub paths and secondary stream
// attributes are skipped using their length prefixes.
//
// Fields that a truncated or unusual play item may omit are pointers (nil
// when absent) so callers can validate them explicitly. A table whose start
// address is zero or past the end of the file decodes as nil, while a table
// that is present but lists no entries decodes as an empty, non-nil value.
package mpls
