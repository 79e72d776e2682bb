package mpls

import "encoding/binary"

// cursor walks a big-endian byte slice. Reads past the end report false and
// leave the offset unchanged.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) u8() (uint8, bool) {
	if c.remaining() < 1 {
		return 0, false
	}
	v := c.buf[c.off]
	c.off++
	return v, true
}

func (c *cursor) u16() (uint16, bool) {
	if c.remaining() < 2 {
		return 0, false
	}
	v := binary.BigEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, true
}

func (c *cursor) u32() (uint32, bool) {
	if c.remaining() < 4 {
		return 0, false
	}
	v := binary.BigEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, true
}

func (c *cursor) bytes(n int) ([]byte, bool) {
	if n < 0 || c.remaining() < n {
		return nil, false
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, true
}

func (c *cursor) skip(n int) bool {
	_, ok := c.bytes(n)
	return ok
}

// sub consumes n bytes and returns a cursor bounded to them.
func (c *cursor) sub(n int) (*cursor, bool) {
	b, ok := c.bytes(n)
	if !ok {
		return nil, false
	}
	return &cursor{buf: b}, true
}
