// Package preflight provides readiness checks for the filesystem paths
// bdindex depends on.
//
// The CLI "bdindex doctor" command runs RunAll and prints one line per
// check. Checks never modify anything; a failed check explains itself in
// Result.Detail.
package preflight
