package lexer

// Поддержка: 0, 123, 1.5, .5, 1.
// Экспоненты и основания (0x...) не входят в грамматику формул.
// Вызывается только когда текущий байт цифра или ".<цифра>".
func (lx *Lexer) scanNumber() Lexeme {
	start := lx.cursor.Mark()

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if lx.cursor.Eat('.') {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return Lexeme{Kind: Number, Span: sp, Text: lx.text(sp)}
}
