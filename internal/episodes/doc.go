// Package episodes maps disc playlists (or a folder of loose files) onto a
// flat, 1-based episode list with chapters and optional OP/ED frame ranges.
//
// Decoding is left to an external frame-processing engine reached through the
// Clip and Indexer types; this package only slices and joins clips.
package episodes
