package ingest

// reader.go cleans up exported CSV bytes before they reach the CSV decoder:
//
//   - bomReader drops a leading UTF-8 byte order mark (Excel adds one)
//   - utf8Reader replaces bytes that are not valid UTF-8 with '?'
//   - CountingReader records how many bytes were consumed
//
// Use Wrap to stack them in the right order. LimitReader guards the raw
// upload before any of them.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrFileTooLarge is returned by a LimitReader once the input passes its limit.
var ErrFileTooLarge = errors.New("file too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomReader strips a UTF-8 BOM from the start of the stream.
type bomReader struct {
	r       io.Reader
	checked bool
	head    []byte // bytes read while checking, to be returned first
}

func newBOMReader(r io.Reader) *bomReader {
	return &bomReader{r: r}
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		buf := make([]byte, len(utf8BOM))
		n, err := io.ReadFull(b.r, buf)
		buf = buf[:n]
		if !bytes.Equal(buf, utf8BOM) {
			b.head = buf
		}
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
	}

	if len(b.head) > 0 {
		n := copy(p, b.head)
		b.head = b.head[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// utf8Reader replaces invalid UTF-8 with '?' without buffering the whole
// input. A multi-byte sequence split across reads is held back until the
// next read completes it.
type utf8Reader struct {
	r       io.Reader
	carry   []byte
	pending []byte // sanitized output not yet returned
	err     error
}

func newUTF8Reader(r io.Reader) *utf8Reader {
	return &utf8Reader{r: r}
}

func (u *utf8Reader) Read(p []byte) (int, error) {
	for len(u.pending) == 0 {
		if u.err != nil {
			return 0, u.err
		}

		buf := make([]byte, 32*1024)
		n := copy(buf, u.carry)
		m, err := u.r.Read(buf[n:])
		chunk := buf[:n+m]
		u.carry = u.carry[:0]
		u.err = err

		if err == nil {
			// Hold back a trailing partial rune for the next round.
			if k := partialTail(chunk); k > 0 {
				u.carry = append(u.carry, chunk[len(chunk)-k:]...)
				chunk = chunk[:len(chunk)-k]
			}
		}
		u.pending = sanitize(chunk)
	}

	n := copy(p, u.pending)
	u.pending = u.pending[n:]
	return n, nil
}

// sanitize returns data with every invalid byte replaced by '?'.
func sanitize(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
		} else {
			out = append(out, data[:size]...)
		}
		data = data[size:]
	}
	return out
}

// partialTail returns how many trailing bytes of data begin a multi-byte
// sequence that is not yet complete.
func partialTail(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		c := data[len(data)-i]
		if c&0xC0 == 0x80 {
			continue // continuation byte, keep looking for the lead
		}
		if c < 0xC0 {
			return 0
		}
		if need := leadLen(c); need > i {
			return i
		}
		return 0
	}
	return 0
}

func leadLen(c byte) int {
	switch {
	case c >= 0xF0:
		return 4
	case c >= 0xE0:
		return 3
	case c >= 0xC0:
		return 2
	default:
		return 1
	}
}

// CountingReader tracks bytes read, for logging and size metrics.
type CountingReader struct {
	r io.Reader
	N int64
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.N += int64(n)
	return n, err
}

// Wrap strips the BOM, then sanitizes UTF-8, then counts.
func Wrap(r io.Reader) *CountingReader {
	return &CountingReader{r: newUTF8Reader(newBOMReader(r))}
}

type limitReader struct {
	r     io.Reader
	limit int64
	read  int64
}

// LimitReader returns a reader that fails with ErrFileTooLarge as soon as
// more than limit bytes have been read. A non-positive limit disables it.
func LimitReader(r io.Reader, limit int64) io.Reader {
	if limit <= 0 {
		return r
	}
	return &limitReader{r: r, limit: limit}
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.read > l.limit {
		return 0, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.limit)
	}
	// Allow one byte past the limit so an exact-size file is accepted.
	if room := l.limit - l.read + 1; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return 0, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.limit)
	}
	return n, err
}
