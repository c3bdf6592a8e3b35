package lexer

import (
	"fmt"

	"fortio.org/safecast"
)

// Cursor is a byte position inside the flattened expression.
type Cursor struct {
	Src []byte
	Off uint32
	// Limit is the exclusive upper bound for Off; defaults to len(Src).
	Limit uint32
}

// NewCursor creates a new cursor over src.
func NewCursor(src []byte) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("expression length overflow: %w", err))
	}
	return Cursor{
		Src:   src,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец выражения
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// Peek2 returns the current and the next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.Src[c.Off], c.Src[c.Off+1], true
}

// Bump advances one byte and returns the byte it moved over.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	return b
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) Span {
	return Span{Start: uint32(m), End: c.Off}
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
