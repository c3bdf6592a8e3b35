package lexer

import "strconv"

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (lx *Lexer) skipSpace() {
	for isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// Проверка для кейса ".5": текущая точка, дальше цифра?
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

func quote(s string) string {
	return strconv.Quote(s)
}
