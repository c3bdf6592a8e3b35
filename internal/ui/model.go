// Package ui renders the formula editor as a Bubble Tea program.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tagcalc/internal/complete"
	"tagcalc/internal/editor"
	"tagcalc/internal/eval"
	"tagcalc/internal/token"
)

// Notice is a status line update pushed from outside the program, such as
// a config reload.
type Notice struct {
	Text string
	Err  error
}

type lookupMsg complete.Result
type noticeMsg Notice
type noticesClosedMsg struct{}

type model struct {
	ed      *editor.Editor
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	notices <-chan Notice

	width    int
	menu     string // id of the tag whose menu is open
	renaming string // id of the tag being renamed
	status   string
	statusOK bool
}

// NewModel returns a Bubble Tea model editing through ed. notices may be
// nil.
func NewModel(ed *editor.Editor, notices <-chan Notice) tea.Model {
	return newModel(ed, notices)
}

func newModel(ed *editor.Editor, notices <-chan Notice) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Type formula..."
	ti.Focus()

	return &model{
		ed:      ed,
		input:   ti,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeys(),
		notices: notices,
		width:   80,
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, ed *editor.Editor, notices <-chan Notice) error {
	p := tea.NewProgram(NewModel(ed, notices), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.listenForNotice())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupMsg:
		m.ed.ApplyResult(complete.Result(msg))
		return m, nil
	case noticeMsg:
		m.status = msg.Text
		m.statusOK = msg.Err == nil
		if msg.Err != nil {
			m.status = msg.Err.Error()
		}
		return m, m.listenForNotice()
	case noticesClosedMsg:
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.help.Width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		if m.menu != "" {
			return m, m.menuKey(msg)
		}
		return m, m.editKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) editKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.renaming != "" {
			m.renaming = ""
			m.input.SetValue("")
			return nil
		}
		return tea.Quit
	case m.renaming != "" && key.Matches(msg, m.keys.Accept):
		m.ed.RenameTag(m.renaming, m.input.Value())
		m.renaming = ""
		m.input.SetValue("")
		return nil
	case m.renaming != "":
		return m.typeKey(msg, false)
	case key.Matches(msg, m.keys.Calculate):
		m.ed.Calculate()
		return nil
	case key.Matches(msg, m.keys.Clear):
		m.ed.Clear()
		m.status = ""
		return m.sync()
	case key.Matches(msg, m.keys.TagMenu):
		if tok, ok := m.tagBeforeCursor(); ok {
			m.menu = tok.ID
		}
		return nil
	case key.Matches(msg, m.keys.Accept):
		m.ed.Enter()
		return m.sync()
	case key.Matches(msg, m.keys.Complete):
		m.ed.Tab()
		return m.sync()
	case key.Matches(msg, m.keys.Prev):
		m.ed.Up()
		return nil
	case key.Matches(msg, m.keys.Next):
		m.ed.Down()
		return nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if m.ed.Backspace() {
			return nil
		}
	case tea.KeyLeft:
		if m.ed.Left() {
			return nil
		}
	case tea.KeyRight:
		if m.ed.Right() {
			return nil
		}
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && token.IsOperatorRune(msg.Runes[0]) && !msg.Paste {
			m.ed.Operator(string(msg.Runes))
			return m.sync()
		}
	}
	return m.typeKey(msg, true)
}

// typeKey forwards msg to the text input and starts a lookup when the text
// changed.
func (m *model) typeKey(msg tea.KeyMsg, lookup bool) tea.Cmd {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if !lookup || m.input.Value() == before {
		return cmd
	}
	req := m.ed.SetInput(m.input.Value())
	if req == nil {
		return cmd
	}
	return tea.Batch(cmd, runLookup(req))
}

func (m *model) menuKey(msg tea.KeyMsg) tea.Cmd {
	id := m.menu
	switch msg.String() {
	case "r", "d", "delete":
		m.ed.RemoveTag(id)
		m.menu = ""
	case "e":
		if tok, ok := m.ed.Store().Get(id); ok {
			m.renaming = id
			m.input.SetValue(tok.Literal)
			m.input.CursorEnd()
		}
		m.menu = ""
	case "esc", "ctrl+t", "q":
		m.menu = ""
	case "ctrl+c":
		return tea.Quit
	}
	return nil
}

// sync copies the editor's pending text back into the text input after
// the editor consumed or committed it.
func (m *model) sync() tea.Cmd {
	if m.input.Value() != m.ed.Input() {
		m.input.SetValue(m.ed.Input())
		m.input.CursorEnd()
	}
	return nil
}

func (m *model) tagBeforeCursor() (token.Token, bool) {
	st := m.ed.Store()
	tok, ok := st.At(st.Cursor() - 1)
	if !ok || tok.Kind != token.KindTag {
		return token.Token{}, false
	}
	return tok, true
}

func runLookup(req *complete.Request) tea.Cmd {
	return func() tea.Msg {
		return lookupMsg(req.Run())
	}
}

func (m *model) listenForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-m.notices
		if !ok {
			return noticesClosedMsg{}
		}
		return noticeMsg(n)
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tagcalc"))
	b.WriteString("\n")

	b.WriteString(boxStyle.Width(max(m.width-2, 20)).Render(m.formulaLine()))
	b.WriteString("\n")

	if m.menu != "" {
		b.WriteString(m.menuView())
	}
	if m.renaming != "" {
		b.WriteString(dimStyle.Render("  rename tag: enter to confirm, esc to cancel"))
		b.WriteString("\n")
	}

	if sugg := m.ed.Suggestions(); len(sugg) > 0 {
		b.WriteString(m.suggestionsView(sugg))
	} else if m.ed.Loading() {
		b.WriteString(fmt.Sprintf("  %s Loading suggestions...\n", m.spinner.View()))
	}

	if msg := m.ed.Error(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
		if fe := m.ed.FormulaError(); fe != nil {
			b.WriteString(dimStyle.Render(caretLine(fe)))
			b.WriteString("\n")
		}
	}
	if v, ok := m.ed.Result(); ok {
		b.WriteString(resultStyle.Render("= " + eval.FormatResult(v)))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := dimStyle
		if !m.statusOK {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *model) formulaLine() string {
	st := m.ed.Store()
	var parts []string
	for _, tok := range st.Before() {
		parts = append(parts, chip(tok))
	}
	if m.input.Value() == "" && m.renaming == "" {
		parts = append(parts, cursorStyle.Render("│"))
		if st.Len() == 0 {
			parts = append(parts, dimStyle.Render(m.input.Placeholder))
		}
	} else {
		parts = append(parts, m.input.View())
	}
	for _, tok := range st.After() {
		parts = append(parts, chip(tok))
	}
	return strings.Join(parts, " ")
}

func chip(tok token.Token) string {
	text := tok.Literal
	if tok.Kind == token.KindTag {
		text += " ▾"
	}
	return chipStyle(tok.Kind).Render(text)
}

func (m *model) menuView() string {
	tok, ok := m.ed.Store().Get(m.menu)
	if !ok || tok.Tag == nil {
		return ""
	}
	line := fmt.Sprintf("  %s  Type: %s  Value: %s  [e]dit  [r]emove  [esc] close",
		tagStyle.Render(tok.Literal), tok.Tag.Kind, eval.FormatResult(tok.Tag.Value))
	return truncate(line, m.width) + "\n"
}

func (m *model) suggestionsView(sugg []complete.Suggestion) string {
	var b strings.Builder
	nameWidth := max(m.width-24, 16)
	for i, s := range sugg {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == m.ed.Selected() {
			marker = "› "
			style = selectedStyle
		}
		name := truncate(s.Tag.Name, nameWidth)
		meta := fmt.Sprintf("%s • %s", s.Tag.Kind, eval.FormatResult(s.Tag.Value))
		b.WriteString(style.Render(marker + name))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(meta))
		b.WriteString("\n")
		if s.Description != "" {
			b.WriteString(dimStyle.Render("    " + truncate(s.Description, nameWidth)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// caretLine points at the failing byte range of the flattened formula.
func caretLine(fe *eval.FormulaError) string {
	width := max(fe.Span.End-fe.Span.Start, 1)
	return fmt.Sprintf("  %s\n  %s%s", fe.Expr, strings.Repeat(" ", fe.Span.Start), strings.Repeat("^", width))
}
