package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphpad/pkg/document"
	"github.com/matzehuels/graphpad/pkg/editor"
	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

// doubleClickInterval is the longest gap between two presses on the same
// cell that still counts as a double-click.
const doubleClickInterval = 400 * time.Millisecond

// Terminal size used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// =============================================================================
// Key bindings
// =============================================================================

type editorKeyMap struct {
	New    key.Binding
	Open   key.Binding
	Save   key.Binding
	SaveAs key.Binding
	Black  key.Binding
	Red    key.Binding
	Blue   key.Binding
	Delete key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultEditorKeys() editorKeyMap {
	return editorKeyMap{
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Save:   key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		SaveAs: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "save as")),
		Black:  key.NewBinding(key.WithKeys("k", "1"), key.WithHelp("k", "black pen")),
		Red:    key.NewBinding(key.WithKeys("r", "2"), key.WithHelp("r", "red pen")),
		Blue:   key.NewBinding(key.WithKeys("b", "3"), key.WithHelp("b", "blue pen")),
		Delete: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete node")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Black, k.Red, k.Blue, k.Save, k.Open, k.Help, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Black, k.Red, k.Blue},
		{k.New, k.Open, k.Save, k.SaveAs},
		{k.Delete, k.Cancel, k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

type promptKind int

const (
	promptNone promptKind = iota
	promptConfirm
	promptOpen
	promptSaveAs
)

type cellPos struct{ col, row int }

// editorModel is the bubbletea model of the terminal editor. Mouse events
// are translated to canvas coordinates and fed to the document's gesture
// controller; keys drive the document commands.
type editorModel struct {
	ctx  context.Context
	doc  *document.Document
	grid grid

	width, height int

	keys  editorKeyMap
	help  help.Model
	input textinput.Model

	prompt    promptKind
	confirm   string
	onConfirm func(editorModel) (editorModel, tea.Cmd)

	notice    string
	noticeErr bool

	cursor    cellPos
	lastPress time.Time
	lastCell  cellPos
	now       func() time.Time

	quitting bool
}

func newEditorModel(ctx context.Context, doc *document.Document, gr grid) editorModel {
	in := textinput.New()
	in.CharLimit = 4096
	return editorModel{
		ctx:    ctx,
		doc:    doc,
		grid:   gr,
		width:  defaultWidth,
		height: defaultHeight,
		keys:   defaultEditorKeys(),
		help:   help.New(),
		input:  in,
		now:    time.Now,
	}
}

func (m editorModel) Init() tea.Cmd {
	return tea.SetWindowTitle(m.title())
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = max(msg.Width, 1), max(msg.Height, 3)
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-20, 10)
		return m, nil
	case tea.MouseMsg:
		if m.prompt != promptNone {
			return m, nil
		}
		return m.handleMouse(msg)
	case tea.KeyMsg:
		switch m.prompt {
		case promptConfirm:
			return m.handleConfirmKey(msg)
		case promptOpen, promptSaveAs:
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// =============================================================================
// Pointer input
// =============================================================================

func (m editorModel) canvasHeight() int {
	return max(m.height-2, 1)
}

func (m editorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	inside := msg.X >= 0 && msg.Y >= 0 && msg.X < m.width && msg.Y < m.canvasHeight()
	if msg.Action == tea.MouseActionPress && !inside {
		return m, nil
	}
	// Drags that leave the canvas stick to its border.
	cell := cellPos{
		col: min(max(msg.X, 0), m.width-1),
		row: min(max(msg.Y, 0), m.canvasHeight()-1),
	}
	pos := m.grid.scene(cell.col, cell.row)
	m.cursor = cell

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			kind := editor.Press
			now := m.now()
			if cell == m.lastCell && !m.lastPress.IsZero() && now.Sub(m.lastPress) <= doubleClickInterval {
				kind = editor.DoubleClick
				m.lastPress = time.Time{}
			} else {
				m.lastPress, m.lastCell = now, cell
			}
			m.apply(editor.Event{Kind: kind, Pos: pos})
		case tea.MouseButtonRight:
			m.deleteAt(pos)
		}
	case tea.MouseActionMotion:
		m.apply(editor.Event{Kind: editor.Move, Pos: pos})
	case tea.MouseActionRelease:
		m.apply(editor.Event{Kind: editor.Release, Pos: pos})
	}
	return m, nil
}

func (m *editorModel) apply(ev editor.Event) {
	res := m.doc.HandleEvent(m.ctx, ev)
	switch res.Action {
	case editor.ActionEdgeRejected:
		m.setNotice(fmt.Sprintf("no edge %d-%d: self-loop or already connected", res.Edge.From, res.Edge.To), false)
	case editor.ActionAnchorSet:
		m.setNotice(fmt.Sprintf("edge from %d: double-click the other end", res.Node), false)
	case editor.ActionAnchorCleared:
		m.setNotice("edge cancelled", false)
	case editor.ActionNone, editor.ActionNodeMoved:
	default:
		m.notice = ""
	}
}

func (m *editorModel) deleteAt(pos graph.Point) {
	res := m.doc.DeleteAt(m.ctx, pos)
	if res.Action == editor.ActionNodeDeleted {
		m.setNotice(fmt.Sprintf("deleted node %d", res.Node), false)
	}
}

// =============================================================================
// Keys
// =============================================================================

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.guard("Quit without saving?", func(m editorModel) (editorModel, tea.Cmd) {
			m.quitting = true
			return m, tea.Quit
		})
	case key.Matches(msg, m.keys.New):
		return m.guard("Discard changes and start a new graph?", func(m editorModel) (editorModel, tea.Cmd) {
			m.doc.Reset(m.ctx)
			m.setNotice("new graph", false)
			return m, tea.SetWindowTitle(m.title())
		})
	case key.Matches(msg, m.keys.Open):
		return m.guard("Discard changes and open another file?", func(m editorModel) (editorModel, tea.Cmd) {
			return m.ask(promptOpen, "", "file.graph")
		})
	case key.Matches(msg, m.keys.Save):
		if !m.doc.HasSaveTarget() {
			return m.ask(promptSaveAs, "", "file.graph")
		}
		m.report(m.doc.Save(m.ctx), "saved "+m.doc.Path())
		return m, nil
	case key.Matches(msg, m.keys.SaveAs):
		return m.ask(promptSaveAs, m.doc.Path(), "file.graph")
	case key.Matches(msg, m.keys.Black):
		m.doc.SetPenColor(graph.Black)
	case key.Matches(msg, m.keys.Red):
		m.doc.SetPenColor(graph.Red)
	case key.Matches(msg, m.keys.Blue):
		m.doc.SetPenColor(graph.Blue)
	case key.Matches(msg, m.keys.Delete):
		m.deleteAt(m.grid.scene(m.cursor.col, m.cursor.row))
	case key.Matches(msg, m.keys.Cancel):
		m.doc.Controller().Reset()
		m.notice = ""
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// guard runs next directly when the document is clean and asks first when
// it has unsaved changes.
func (m editorModel) guard(question string, next func(editorModel) (editorModel, tea.Cmd)) (tea.Model, tea.Cmd) {
	if !m.doc.Dirty() {
		return next(m)
	}
	m.prompt = promptConfirm
	m.confirm = question
	m.onConfirm = next
	return m, nil
}

func (m editorModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		next := m.onConfirm
		m.closePrompt()
		return next(m)
	case "n", "esc", "ctrl+c":
		m.closePrompt()
	}
	return m, nil
}

func (m editorModel) ask(kind promptKind, value, placeholder string) (editorModel, tea.Cmd) {
	m.prompt = kind
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m editorModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		if kind == promptOpen {
			m.report(m.doc.Open(m.ctx, path), "opened "+path)
		} else {
			m.report(m.doc.SaveAs(m.ctx, path), "saved "+path)
		}
		return m, tea.SetWindowTitle(m.title())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *editorModel) closePrompt() {
	m.prompt = promptNone
	m.confirm = ""
	m.onConfirm = nil
	m.input.Blur()
	m.input.Reset()
}

func (m *editorModel) report(err error, ok string) {
	if err != nil {
		m.setNotice(errs.UserMessage(err), true)
		return
	}
	m.setNotice(ok, false)
}

func (m *editorModel) setNotice(s string, isErr bool) {
	m.notice, m.noticeErr = s, isErr
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) title() string {
	name := "untitled"
	if p := m.doc.Path(); p != "" {
		name = p
	}
	return appName + " - " + name
}

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}
	c := newCanvas(m.width, m.canvasHeight())
	anchor, anchored := m.doc.Controller().Anchor()
	c.draw(m.doc.Graph(), m.grid, anchor, anchored)

	var b strings.Builder
	b.WriteString(c.Render())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.footer())
	return b.String()
}

var (
	styleStatusBar = lipgloss.NewStyle().Foreground(colorGray)
	styleSeparator = StyleDim.Render(" │ ")
)

func (m editorModel) statusLine() string {
	st := m.doc.Status()
	pen := penStyle(m.doc.PenColor()).Render("●") + " " + st.Pen

	state := st.State
	if st.Anchor != nil {
		state = fmt.Sprintf("%s from %d", state, *st.Anchor)
	}

	file := "untitled"
	if st.Path != "" {
		file = st.Path
	}
	if st.Dirty {
		file = styleDirty.Render(file + " *")
	}

	parts := []string{
		pen,
		state,
		fmt.Sprintf("%d nodes %d edges", st.Nodes, st.Edges),
		file,
	}
	line := styleStatusBar.Render(strings.Join(parts, styleSeparator))
	if m.notice != "" {
		style := StyleHighlight
		if m.noticeErr {
			style = StyleError
		}
		line += styleSeparator + style.Render(m.notice)
	}
	return line
}

func (m editorModel) footer() string {
	switch m.prompt {
	case promptConfirm:
		return StyleWarning.Render(m.confirm) + " " + StyleDim.Render("(y/n)")
	case promptOpen:
		return StyleTitle.Render("Open: ") + m.input.View()
	case promptSaveAs:
		return StyleTitle.Render("Save as: ") + m.input.View()
	}
	return m.help.View(m.keys)
}
