// Package catalog records disc scans in a SQLite database.
//
// A scan lists every playlist item found under a release root at one point in
// time: volume, playlist, item index, backing media file, frame rate and
// chapter frames. Playlists that failed to parse are kept alongside with
// their error. The catalog is a history of what was found; nothing reads it
// back to skip parsing.
//
// Writers take an exclusive file lock next to the database so concurrent
// bdindex processes never interleave a scan's rows. Statements that hit
// SQLITE_BUSY are retried with bounded backoff.
package catalog
