// Package main hosts the bdindex CLI entrypoint and command graph.
//
// The Cobra-based command tree lists disc volumes and playlists, prints
// chapter positions, assembles episode lists across volumes, exports chapter
// files, records scans in the catalog and scaffolds configuration. It
// centralizes configuration resolution and structured logging setup so
// subcommands only deal with presentation.
//
// Parsing and indexing live in the internal packages; commands here stay
// thin wrappers that pick options from config and flags.
package main
