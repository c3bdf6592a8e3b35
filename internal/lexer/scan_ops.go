package lexer

import "unicode/utf8"

func (lx *Lexer) scanOperator() Lexeme {
	start := lx.cursor.Mark()
	emit := func(k Kind) Lexeme {
		sp := lx.cursor.SpanFrom(start)
		return Lexeme{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	switch lx.cursor.Bump() {
	case '+':
		return emit(Plus)
	case '-':
		return emit(Minus)
	case '*':
		return emit(Star)
	case '/':
		return emit(Slash)
	case '^':
		return emit(Caret)
	case '(':
		return emit(LParen)
	case ')':
		return emit(RParen)
	}

	// неизвестный символ: захватываем руну целиком, чтобы Text был валидным UTF-8
	lx.cursor.Reset(start)
	_, size := utf8.DecodeRune(lx.src[lx.cursor.Off:])
	for range size {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report("UnknownChar", sp, "unexpected character "+quote(lx.text(sp)))
	return Lexeme{Kind: Invalid, Span: sp, Text: lx.text(sp)}
}
