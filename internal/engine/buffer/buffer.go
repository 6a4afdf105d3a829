package buffer

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer holds document text and its line index.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lineStarts []int
	revision   uint64
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return NewBufferFromString("")
}

// NewBufferFromString creates a buffer with initial content.
// CRLF and CR line endings are normalized to LF.
func NewBufferFromString(s string) *Buffer {
	b := &Buffer{}
	b.setText(normalizeLineEndings(s))
	return b
}

func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// setText replaces the content and rebuilds the line index (must hold lock).
func (b *Buffer) setText(s string) {
	b.text = s
	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	b.revision++
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end = clamp(start, len(b.text)), clamp(end, len(b.text))
	if start >= end {
		return ""
	}
	return b.text[start:end]
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// LineCount returns the number of lines. An empty buffer has one line, and
// a trailing newline starts a final empty line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineText returns the text of a line without its newline.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lineStarts) {
		return ""
	}
	return b.text[b.lineStarts[line]:b.lineEndLocked(line)]
}

// LineStartOffset returns the byte offset of the start of a line.
// Lines past the end map to the buffer length.
func (b *Buffer) LineStartOffset(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.text)
	}
	return b.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 {
		line = 0
	}
	if line >= len(b.lineStarts) {
		return len(b.text)
	}
	return b.lineEndLocked(line)
}

func (b *Buffer) lineEndLocked(line int) int {
	if line+1 < len(b.lineStarts) {
		return b.lineStarts[line+1] - 1
	}
	return len(b.text)
}

// OffsetToPoint converts a byte offset to a line/column point.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = clamp(offset, len(b.text))
	line := sort.SearchInts(b.lineStarts, offset+1) - 1
	return Point{Line: line, Column: offset - b.lineStarts[line]}
}

// PointToOffset converts a point to a byte offset. Columns past the end of
// the line clamp to the line end.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(b.lineStarts) {
		return len(b.text)
	}
	start, end := b.lineStarts[p.Line], b.lineEndLocked(p.Line)
	return min(start+max(p.Column, 0), end)
}

// RuneAt returns the rune starting at offset and its width in bytes.
// Returns (0, 0) at or past the end of the buffer.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= len(b.text) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(b.text[offset:])
}

// Revision increases on every modification.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	return b.Replace(offset, offset, text)
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > len(b.text) {
		return 0, ErrRangeInvalid
	}

	text = normalizeLineEndings(text)
	b.setText(b.text[:start] + text + b.text[end:])
	return start + len(text), nil
}

// SetText replaces the whole content.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setText(normalizeLineEndings(s))
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
