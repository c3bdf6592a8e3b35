package lexer

type Lexer struct {
	src    []byte
	cursor Cursor
	opts   Options
	look   *Lexeme // 1 элементный буфер
}

func New(src string, opts Options) *Lexer {
	b := []byte(src)
	return &Lexer{
		src:    b,
		cursor: NewCursor(b),
		opts:   opts,
	}
}

// Next returns the next significant lexeme. After EOF it keeps returning EOF.
func (lx *Lexer) Next() Lexeme {
	if lx.look != nil {
		lex := *lx.look
		lx.look = nil
		return lex
	}

	lx.skipSpace()

	if lx.cursor.EOF() {
		return Lexeme{Kind: EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	default:
		return lx.scanOperator()
	}
}

// Peek returns the next lexeme without consuming it.
func (lx *Lexer) Peek() Lexeme {
	l := lx.Next()
	lx.look = &l
	return l
}

// All lexes the whole expression, EOF included.
func (lx *Lexer) All() []Lexeme {
	out := make([]Lexeme, 0, 16)
	for {
		l := lx.Next()
		out = append(out, l)
		if l.Kind == EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() Span {
	return Span{Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp Span) string {
	return string(lx.src[sp.Start:sp.End])
}
