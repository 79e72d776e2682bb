package mpls

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrBadMagic is returned when the file does not start with "MPLS".
	ErrBadMagic = errors.New("not a movie playlist")
	// ErrTruncated is returned when a table ends before its declared contents.
	ErrTruncated = errors.New("truncated playlist data")
)

const (
	headerSize   = 20
	markSize     = 14
	stnFixedSize = 14
)

// DecodeFile opens path, decodes it and closes it before returning.
func DecodeFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads the header, then seeks to the play item table and the mark
// table in turn.
func Decode(r io.ReadSeeker) (*File, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek end: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek start: %w", err)
	}

	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	file := &File{Header: header}

	if tablePresent(header.PlaylistStart, size) {
		if _, err := r.Seek(int64(header.PlaylistStart), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek playlist: %w", err)
		}
		playlist, err := ReadPlaylist(r)
		if err != nil {
			return nil, err
		}
		file.Playlist = &playlist
	}

	if tablePresent(header.PlaylistMarkStart, size) {
		if _, err := r.Seek(int64(header.PlaylistMarkStart), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek playlist marks: %w", err)
		}
		marks, err := ReadMarks(r)
		if err != nil {
			return nil, err
		}
		file.Marks = &marks
	}

	return file, nil
}

func tablePresent(addr uint32, size int64) bool {
	return addr >= headerSize && int64(addr) < size
}

// ReadHeader decodes the fixed header at the current position.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("read header: %w", truncated(err))
	}
	c := &cursor{buf: buf}
	magic, _ := c.bytes(4)
	version, _ := c.bytes(4)
	if string(magic) != "MPLS" {
		return Header{}, fmt.Errorf("%w: type indicator %q", ErrBadMagic, magic)
	}
	h := Header{TypeIndicator: string(magic), Version: string(version)}
	h.PlaylistStart, _ = c.u32()
	h.PlaylistMarkStart, _ = c.u32()
	h.ExtensionDataStart, _ = c.u32()
	return h, nil
}

// ReadPlaylist decodes the play item table at the current position.
func ReadPlaylist(r io.Reader) (Playlist, error) {
	body, length, err := readTable(r, "playlist")
	if err != nil {
		return Playlist{}, err
	}
	c := &cursor{buf: body}
	if !c.skip(2) {
		return Playlist{}, fmt.Errorf("playlist: %w", ErrTruncated)
	}
	count, ok := c.u16()
	if !ok {
		return Playlist{}, fmt.Errorf("playlist: %w", ErrTruncated)
	}
	subPaths, ok := c.u16()
	if !ok {
		return Playlist{}, fmt.Errorf("playlist: %w", ErrTruncated)
	}

	playlist := Playlist{Length: length, SubPathCount: subPaths, PlayItems: make([]PlayItem, 0, count)}
	for i := 0; i < int(count); i++ {
		itemLen, ok := c.u16()
		if !ok {
			return Playlist{}, fmt.Errorf("play item %d: %w", i, ErrTruncated)
		}
		itemBody, ok := c.sub(int(itemLen))
		if !ok {
			return Playlist{}, fmt.Errorf("play item %d: %w", i, ErrTruncated)
		}
		item, err := decodePlayItem(itemBody)
		if err != nil {
			return Playlist{}, fmt.Errorf("play item %d: %w", i, err)
		}
		playlist.PlayItems = append(playlist.PlayItems, item)
	}
	return playlist, nil
}

// ReadMarks decodes the playlist mark table at the current position.
func ReadMarks(r io.Reader) (MarkTable, error) {
	body, length, err := readTable(r, "playlist marks")
	if err != nil {
		return MarkTable{}, err
	}
	c := &cursor{buf: body}
	count, ok := c.u16()
	if !ok {
		return MarkTable{}, fmt.Errorf("playlist marks: %w", ErrTruncated)
	}
	if c.remaining() < int(count)*markSize {
		return MarkTable{}, fmt.Errorf("playlist marks: %d marks declared: %w", count, ErrTruncated)
	}

	table := MarkTable{Length: length, Marks: make([]Mark, 0, count)}
	for i := 0; i < int(count); i++ {
		var m Mark
		c.skip(1)
		m.Type, _ = c.u8()
		m.RefToPlayItemID, _ = c.u16()
		m.Timestamp, _ = c.u32()
		m.EntryESPID, _ = c.u16()
		m.Duration, _ = c.u32()
		table.Marks = append(table.Marks, m)
	}
	return table, nil
}

func readTable(r io.Reader, name string) ([]byte, uint32, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, 0, fmt.Errorf("%s length: %w", name, truncated(err))
	}
	length := binary.BigEndian.Uint32(prefix[:])
	body, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, 0, fmt.Errorf("%s body: %w", name, err)
	}
	if len(body) != int(length) {
		return nil, 0, fmt.Errorf("%s body: %d of %d bytes: %w", name, len(body), length, ErrTruncated)
	}
	return body, length, nil
}

// decodePlayItem fills as many fields as the item body carries; a short body
// leaves the trailing fields nil rather than failing.
func decodePlayItem(c *cursor) (PlayItem, error) {
	var item PlayItem

	name, ok := c.bytes(5)
	if !ok {
		return item, nil
	}
	item.ClipInformationFilename = optionalText(name)

	codec, ok := c.bytes(4)
	if !ok {
		return item, nil
	}
	item.ClipCodecIdentifier = optionalText(codec)

	flags, ok := c.u16()
	if !ok {
		return item, nil
	}
	item.IsMultiAngle = flags&0x0010 != 0
	item.ConnectionCondition = uint8(flags & 0x000f)

	if item.RefToSTCID, ok = c.u8(); !ok {
		return item, nil
	}
	if in, ok := c.u32(); ok {
		item.InTime = &in
	} else {
		return item, nil
	}
	if out, ok := c.u32(); ok {
		item.OutTime = &out
	} else {
		return item, nil
	}

	// UO mask table and random access flag.
	if !c.skip(9) {
		return item, nil
	}
	if item.StillMode, ok = c.u8(); !ok {
		return item, nil
	}
	if item.StillTime, ok = c.u16(); !ok {
		return item, nil
	}

	if item.IsMultiAngle {
		angles, ok := c.u8()
		if !ok || !c.skip(1) {
			return item, fmt.Errorf("angle header: %w", ErrTruncated)
		}
		for i := 1; i < int(angles); i++ {
			raw, ok := c.bytes(10)
			if !ok {
				return item, fmt.Errorf("angle %d: %w", i, ErrTruncated)
			}
			item.Angles = append(item.Angles, Angle{
				ClipInformationFilename: string(bytes.TrimRight(raw[:5], "\x00 ")),
				ClipCodecIdentifier:     string(bytes.TrimRight(raw[5:9], "\x00 ")),
				RefToSTCID:              raw[9],
			})
		}
	}

	stnLen, ok := c.u16()
	if !ok {
		return item, nil
	}
	stnBody, ok := c.sub(int(stnLen))
	if !ok {
		return item, fmt.Errorf("stn table: %w", ErrTruncated)
	}
	stn, err := decodeSTN(stnBody, stnLen)
	if err != nil {
		return item, fmt.Errorf("stn table: %w", err)
	}
	item.STNTable = stn
	return item, nil
}

func decodeSTN(c *cursor, length uint16) (*STNTable, error) {
	stn := &STNTable{Length: length}
	if length == 0 {
		return stn, nil
	}
	fixed, ok := c.bytes(stnFixedSize)
	if !ok {
		return nil, ErrTruncated
	}
	// fixed[0:2] reserved, then seven stream counts, then five reserved bytes.
	videoCount, audioCount, pgCount, igCount := fixed[2], fixed[3], fixed[4], fixed[5]
	stn.SecondaryAudioCount = fixed[6]
	stn.SecondaryVideoCount = fixed[7]
	stn.PIPPGCount = fixed[8]

	var err error
	if stn.PrimaryVideoStreams, err = decodeStreams(c, int(videoCount)); err != nil {
		return nil, fmt.Errorf("video streams: %w", err)
	}
	if stn.PrimaryAudioStreams, err = decodeStreams(c, int(audioCount)); err != nil {
		return nil, fmt.Errorf("audio streams: %w", err)
	}
	// PG and textST share the count; they are listed together.
	if stn.PGStreams, err = decodeStreams(c, int(pgCount)); err != nil {
		return nil, fmt.Errorf("pg streams: %w", err)
	}
	if stn.IGStreams, err = decodeStreams(c, int(igCount)); err != nil {
		return nil, fmt.Errorf("ig streams: %w", err)
	}
	return stn, nil
}

func decodeStreams(c *cursor, count int) ([]Stream, error) {
	streams := make([]Stream, 0, count)
	for i := 0; i < count; i++ {
		entryLen, ok := c.u8()
		if !ok {
			return nil, ErrTruncated
		}
		entryBody, ok := c.sub(int(entryLen))
		if !ok {
			return nil, ErrTruncated
		}
		attrLen, ok := c.u8()
		if !ok {
			return nil, ErrTruncated
		}
		attrBody, ok := c.sub(int(attrLen))
		if !ok {
			return nil, ErrTruncated
		}
		streams = append(streams, Stream{
			Entry:      decodeStreamEntry(entryBody),
			Attributes: decodeStreamAttributes(attrBody),
		})
	}
	return streams, nil
}

func decodeStreamEntry(c *cursor) StreamEntry {
	var e StreamEntry
	e.Type, _ = c.u8()
	switch e.Type {
	case 1:
		e.PID, _ = c.u16()
	case 2, 4:
		e.SubPathID, _ = c.u8()
		e.SubClipID, _ = c.u8()
		e.PID, _ = c.u16()
	case 3:
		e.SubPathID, _ = c.u8()
		e.PID, _ = c.u16()
	}
	return e
}

func decodeStreamAttributes(c *cursor) StreamAttributes {
	var a StreamAttributes
	coding, ok := c.u8()
	if !ok {
		return a
	}
	a.CodingType = coding
	switch {
	case IsVideoCoding(coding):
		if b, ok := c.u8(); ok {
			a.VideoFormat = b >> 4
			rate := b & 0x0f
			a.FrameRate = &rate
		}
	case coding == CodingPG || coding == CodingIG:
		if lang, ok := c.bytes(3); ok {
			a.Language = string(lang)
		}
	case coding == CodingTextST:
		a.CharacterCode, _ = c.u8()
		if lang, ok := c.bytes(3); ok {
			a.Language = string(lang)
		}
	default:
		if b, ok := c.u8(); ok {
			a.AudioFormat = b >> 4
			a.SampleRate = b & 0x0f
		}
		if lang, ok := c.bytes(3); ok {
			a.Language = string(lang)
		}
	}
	return a
}

func optionalText(raw []byte) *string {
	text := strings.TrimSpace(string(bytes.TrimRight(raw, "\x00")))
	if text == "" {
		return nil
	}
	return &text
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}
