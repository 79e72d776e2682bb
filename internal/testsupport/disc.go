package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PlayItemSpec describes one play item written by MPLS.Bytes.
type PlayItemSpec struct {
	Clip    string
	Codec   string
	InTime  uint32
	OutTime uint32
	// FrameRateCode is written into the primary video stream attributes.
	// Zero encodes a missing frame rate.
	FrameRateCode uint8
	AngleClips    []string
	// OmitSTN ends the item body before the stream number table.
	OmitSTN bool
	// EmptySTN writes a stream number table of length zero.
	EmptySTN bool
	// NoVideo writes a stream number table holding only an audio stream.
	NoVideo bool
	// Truncate, when positive, cuts the item body to that many bytes.
	Truncate int
}

// MarkSpec describes one playlist mark.
type MarkSpec struct {
	Type      uint8
	Item      uint16
	Timestamp uint32
}

// MPLS builds a synthetic movie playlist file.
type MPLS struct {
	Items         []PlayItemSpec
	Marks         []MarkSpec
	OmitPlaylist  bool
	OmitMarkTable bool
}

// Item returns a 23.976 fps play item for clip spanning in..out ticks.
func Item(clip string, in, out uint32) PlayItemSpec {
	return PlayItemSpec{Clip: clip, InTime: in, OutTime: out, FrameRateCode: 1}
}

// Marks returns entry marks for item at the given tick timestamps.
func Marks(item uint16, timestamps ...uint32) []MarkSpec {
	marks := make([]MarkSpec, 0, len(timestamps))
	for _, ts := range timestamps {
		marks = append(marks, MarkSpec{Type: 1, Item: item, Timestamp: ts})
	}
	return marks
}

const playlistOffset = 44

// Bytes encodes the playlist. The play item table sits at offset 44 behind an
// empty AppInfo block and the mark table follows it directly.
func (m MPLS) Bytes() []byte {
	playlist := m.playlistTable()
	marks := m.markTable()

	var playlistStart, markStart uint32
	if !m.OmitPlaylist {
		playlistStart = playlistOffset
	}
	if !m.OmitMarkTable {
		markStart = playlistOffset
		if !m.OmitPlaylist {
			markStart += uint32(len(playlist))
		}
	}

	out := make([]byte, 0, playlistOffset+len(playlist)+len(marks))
	out = append(out, "MPLS0200"...)
	out = binary.BigEndian.AppendUint32(out, playlistStart)
	out = binary.BigEndian.AppendUint32(out, markStart)
	out = binary.BigEndian.AppendUint32(out, 0)
	out = append(out, make([]byte, 40-len(out))...)
	out = binary.BigEndian.AppendUint32(out, 0)
	if !m.OmitPlaylist {
		out = append(out, playlist...)
	}
	if !m.OmitMarkTable {
		out = append(out, marks...)
	}
	return out
}

func (m MPLS) playlistTable() []byte {
	body := make([]byte, 0, 64)
	body = binary.BigEndian.AppendUint16(body, 0)
	body = binary.BigEndian.AppendUint16(body, uint16(len(m.Items)))
	body = binary.BigEndian.AppendUint16(body, 0)
	for _, item := range m.Items {
		encoded := item.bytes()
		body = binary.BigEndian.AppendUint16(body, uint16(len(encoded)))
		body = append(body, encoded...)
	}
	table := binary.BigEndian.AppendUint32(nil, uint32(len(body)))
	return append(table, body...)
}

func (m MPLS) markTable() []byte {
	body := binary.BigEndian.AppendUint16(nil, uint16(len(m.Marks)))
	for _, mark := range m.Marks {
		markType := mark.Type
		if markType == 0 {
			markType = 1
		}
		body = append(body, 0, markType)
		body = binary.BigEndian.AppendUint16(body, mark.Item)
		body = binary.BigEndian.AppendUint32(body, mark.Timestamp)
		body = binary.BigEndian.AppendUint16(body, 0xffff)
		body = binary.BigEndian.AppendUint32(body, 0)
	}
	table := binary.BigEndian.AppendUint32(nil, uint32(len(body)))
	return append(table, body...)
}

func (p PlayItemSpec) bytes() []byte {
	codec := p.Codec
	if codec == "" {
		codec = "M2TS"
	}
	body := make([]byte, 0, 96)
	body = append(body, fixedText(p.Clip, 5)...)
	body = append(body, fixedText(codec, 4)...)
	flags := uint16(0x0001)
	if len(p.AngleClips) > 0 {
		flags |= 0x0010
	}
	body = binary.BigEndian.AppendUint16(body, flags)
	body = append(body, 0)
	body = binary.BigEndian.AppendUint32(body, p.InTime)
	body = binary.BigEndian.AppendUint32(body, p.OutTime)
	body = append(body, make([]byte, 8)...)
	body = append(body, 0, 0)
	body = binary.BigEndian.AppendUint16(body, 0)
	if len(p.AngleClips) > 0 {
		body = append(body, uint8(len(p.AngleClips)+1), 0)
		for _, clip := range p.AngleClips {
			body = append(body, fixedText(clip, 5)...)
			body = append(body, fixedText(codec, 4)...)
			body = append(body, 0)
		}
	}
	if !p.OmitSTN {
		stn := p.stnBody()
		body = binary.BigEndian.AppendUint16(body, uint16(len(stn)))
		body = append(body, stn...)
	}
	if p.Truncate > 0 && p.Truncate < len(body) {
		body = body[:p.Truncate]
	}
	return body
}

func (p PlayItemSpec) stnBody() []byte {
	if p.EmptySTN {
		return nil
	}
	videoCount := byte(1)
	if p.NoVideo {
		videoCount = 0
	}
	body := []byte{0, 0, videoCount, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if !p.NoVideo {
		body = append(body, streamEntry(0x1011)...)
		// H.264, 1080p, frame rate code in the low nibble.
		body = append(body, 5, 0x1b, 0x60|p.FrameRateCode&0x0f, 0, 0, 0)
	}
	body = append(body, streamEntry(0x1100)...)
	body = append(body, 5, 0x81, 0x31, 'j', 'p', 'n')
	return body
}

func streamEntry(pid uint16) []byte {
	entry := []byte{9, 1}
	entry = binary.BigEndian.AppendUint16(entry, pid)
	return append(entry, 0, 0, 0, 0, 0, 0)
}

func fixedText(value string, size int) []byte {
	out := make([]byte, size)
	copy(out, value)
	return out
}

// WriteMPLS encodes m to path, creating parent directories.
func WriteMPLS(t testing.TB, path string, m MPLS) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, m.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MakeVolume lays out a BDMV volume under dir with the given playlists keyed
// by five-digit id. Every clip referenced by a play item gets a small .m2ts
// file in BDMV/STREAM. It returns dir.
func MakeVolume(t testing.TB, dir string, playlists map[string]MPLS) string {
	t.Helper()
	for _, sub := range []string{
		filepath.Join("BDMV", "PLAYLIST"),
		filepath.Join("BDMV", "STREAM"),
		"CERTIFICATE",
	} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}
	for id, playlist := range playlists {
		WriteMPLS(t, filepath.Join(dir, "BDMV", "PLAYLIST", id+".mpls"), playlist)
		for _, item := range playlist.Items {
			if strings.TrimSpace(item.Clip) == "" {
				continue
			}
			WriteFile(t, filepath.Join(dir, "BDMV", "STREAM", item.Clip+".m2ts"), 192)
		}
	}
	return dir
}
