// Copyright 2025 Certen Protocol
//
// Canonical CBOR primitive encode/decode: shortest-form unsigned integers,
// definite-length byte/text strings and maps. No floats, no indefinite
// length, no tags — the proof schema carries only bytes/integers/strings/
// maps.

package codec

import (
	"github.com/certen/proofsuite/pkg/proofsuite"
)

// encodeUint emits the shortest canonical CBOR encoding of v as an unsigned
// integer (major type 0).
func encodeUint(v uint64) []byte {
	return encodeHead(majorUint, v)
}

// encodeHead emits a major-type/length-or-value head using the minimal
// additional-info encoding RFC 8949 canonical form requires.
func encodeHead(major byte, v uint64) []byte {
	m := major << 5
	switch {
	case v < 24:
		return []byte{m | byte(v)}
	case v <= 0xFF:
		return []byte{m | 24, byte(v)}
	case v <= 0xFFFF:
		return []byte{m | 25, byte(v >> 8), byte(v)}
	case v <= 0xFFFFFFFF:
		return []byte{
			m | 26,
			byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
		}
	default:
		return []byte{
			m | 27,
			byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
			byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
		}
	}
}

func encodeBytes(b []byte) []byte {
	out := encodeHead(majorBytes, uint64(len(b)))
	return append(out, b...)
}

func encodeText(s string) []byte {
	out := encodeHead(majorText, uint64(len(s)))
	return append(out, []byte(s)...)
}

func encodeMapHeader(n int) []byte {
	return encodeHead(majorMap, uint64(n))
}

// decoder reads canonical CBOR primitives from a fixed buffer, rejecting any
// non-minimal or indefinite-length encoding with NonCanonical.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) atEnd() bool { return d.pos >= len(d.buf) }

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, proofsuite.ErrMalformedProof("unexpected end of input", nil)
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// readHead parses a major-type head and returns (major, value), validating
// that the additional-info encoding used is the minimal one for value.
func (d *decoder) readHead() (byte, uint64, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, 0, err
	}
	major := b >> 5
	info := b & 0x1F

	switch {
	case info < 24:
		return major, uint64(info), nil
	case info == 24:
		v, err := d.readByte()
		if err != nil {
			return 0, 0, err
		}
		if v < 24 {
			return 0, 0, proofsuite.ErrNonCanonical("1-byte length not minimal", nil)
		}
		return major, uint64(v), nil
	case info == 25:
		if d.pos+2 > len(d.buf) {
			return 0, 0, proofsuite.ErrMalformedProof("truncated 2-byte length", nil)
		}
		v := uint64(d.buf[d.pos])<<8 | uint64(d.buf[d.pos+1])
		d.pos += 2
		if v <= 0xFF {
			return 0, 0, proofsuite.ErrNonCanonical("2-byte length not minimal", nil)
		}
		return major, v, nil
	case info == 26:
		if d.pos+4 > len(d.buf) {
			return 0, 0, proofsuite.ErrMalformedProof("truncated 4-byte length", nil)
		}
		v := uint64(0)
		for i := 0; i < 4; i++ {
			v = v<<8 | uint64(d.buf[d.pos+i])
		}
		d.pos += 4
		if v <= 0xFFFF {
			return 0, 0, proofsuite.ErrNonCanonical("4-byte length not minimal", nil)
		}
		return major, v, nil
	case info == 27:
		if d.pos+8 > len(d.buf) {
			return 0, 0, proofsuite.ErrMalformedProof("truncated 8-byte length", nil)
		}
		v := uint64(0)
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(d.buf[d.pos+i])
		}
		d.pos += 8
		if v <= 0xFFFFFFFF {
			return 0, 0, proofsuite.ErrNonCanonical("8-byte length not minimal", nil)
		}
		return major, v, nil
	default:
		// 28-30 reserved, 31 indefinite-length: both rejected.
		return 0, 0, proofsuite.ErrNonCanonical("indefinite-length or reserved encoding", nil)
	}
}

func (d *decoder) readUint() (uint64, error) {
	major, v, err := d.readHead()
	if err != nil {
		return 0, err
	}
	if major != majorUint {
		return 0, proofsuite.ErrMalformedProof("expected unsigned integer", nil)
	}
	return v, nil
}

func (d *decoder) readBytes() ([]byte, error) {
	major, n, err := d.readHead()
	if err != nil {
		return nil, err
	}
	if major != majorBytes {
		return nil, proofsuite.ErrMalformedProof("expected byte string", nil)
	}
	if n > uint64(len(d.buf)-d.pos) {
		return nil, proofsuite.ErrMalformedProof("truncated byte string", nil)
	}
	out := make([]byte, n)
	copy(out, d.buf[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return out, nil
}

func (d *decoder) readText() (string, error) {
	major, n, err := d.readHead()
	if err != nil {
		return "", err
	}
	if major != majorText {
		return "", proofsuite.ErrMalformedProof("expected text string", nil)
	}
	if n > uint64(len(d.buf)-d.pos) {
		return "", proofsuite.ErrMalformedProof("truncated text string", nil)
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

func (d *decoder) readMapHeader() (int, error) {
	major, n, err := d.readHead()
	if err != nil {
		return 0, err
	}
	if major != majorMap {
		return 0, proofsuite.ErrMalformedProof("expected map", nil)
	}
	return int(n), nil
}
