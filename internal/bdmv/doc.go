// Package bdmv reads Blu-ray folder trees: it validates disc volumes, finds
// them under a release root, and turns movie playlists into ordered items
// with their backing .m2ts file, frame rate, and frame-accurate chapters.
//
// Every call re-reads the disc from the filesystem. Values returned by the
// package are not modified afterwards and may be shared between goroutines.
package bdmv
