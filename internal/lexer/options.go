package lexer

// Reporter: тонкий интерфейс, чтобы не тянуть diag сюда.
type Reporter interface {
	Report(kind string, span Span, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil: тогда ошибки игнорируем и продолжаем лексить
}

func (lx *Lexer) report(kind string, sp Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, sp, msg)
	}
}
