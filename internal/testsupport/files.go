package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// bdavPacketSize is the size of one source packet in a BDAV stream: a
// four-byte arrival timestamp followed by a 188-byte transport packet.
const bdavPacketSize = 192

// WriteFile creates path and its parent folders and fills it with size bytes
// shaped like a BDAV stream, each 192-byte packet carrying the 0x47 sync byte
// at offset four. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	data := make([]byte, size)
	for i := int64(4); i < size; i += bdavPacketSize {
		data[i] = 0x47
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
