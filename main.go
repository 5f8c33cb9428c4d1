package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const version = "0.4.0"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	page := ""
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-h", "--help":
			printUsage()
			return
		case "--version":
			fmt.Println("scrawl " + version)
			return
		case "--db":
			if i+1 < len(args) {
				i++
				cfg.Database.Path = args[i]
			}
		default:
			if !strings.HasPrefix(arg, "-") && page == "" {
				page = arg
			}
		}
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	store, err := OpenStore(cfg.Database.Path)
	if err != nil {
		logger.Error("open store", zap.Error(err))
		fmt.Fprintln(os.Stderr, "open store:", err)
		os.Exit(1)
	}
	defer store.Close()

	saver := newAutosaver(store, time.Duration(cfg.UI.AutosaveMS)*time.Millisecond, logger)
	defer saver.Flush()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("db", cfg.Database.Path))

	p := tea.NewProgram(
		initialModel(cfg, logger, store, saver, page),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("program", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scrawl - a whiteboard for your terminal

usage:
  scrawl [page]       open a page (created if missing)
  scrawl --db PATH    use a specific database file
  scrawl --version    print version
  scrawl --help       this text

Pages live in a sqlite database under ~/.local/share/scrawl by default;
see ~/.config/scrawl/config.toml for settings.`)
}

// pageBuffer is one open page: its board, edit history, viewport offset and
// the ordered selection.
type pageBuffer struct {
	name      string
	board     *Board
	history   *History
	panX      int
	panY      int
	selection []string
}

type model struct {
	cfg    *Config
	log    *zap.Logger
	store  *Store
	saver  *autosaver
	opener linkOpener

	keys   keyMap
	width  int
	height int

	buffers []*pageBuffer
	current int

	mode       Mode
	cursorX    int
	cursorY    int
	needCenter bool

	toolbar toolbar

	// multiline shape text editing
	editor textarea.Model
	editID string

	// one-line prompt
	input       textinput.Model
	purpose     InputPurpose
	inputTarget string
	inputReturn Mode

	picker list.Model

	// rect select anchor, in board coordinates
	anchorX int
	anchorY int

	// move/resize in progress
	moveIDs    []string
	moveOrig   []*Shape
	resizeID   string
	resizeOrig []*Shape

	// freehand stroke in progress
	drawType ShapeType
	stroke   []Point

	// line drawing in progress
	lineStart Point
	lineFrom  bool

	confirm       ConfirmAction
	confirmReturn Mode
	confirmTarget string
	pendingDelete []string

	clip []*Shape

	status string
	errMsg string
	help   bool
}

func initialModel(cfg *Config, logger *zap.Logger, store *Store, saver *autosaver, startPage string) model {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 48

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetWidth(60)
	editor.SetHeight(6)

	picker := list.New(nil, list.NewDefaultDelegate(), 40, 12)
	picker.Title = "pages"
	picker.SetShowStatusBar(false)
	picker.SetFilteringEnabled(false)
	picker.SetShowHelp(false)

	m := model{
		cfg:     cfg,
		log:     logger,
		store:   store,
		saver:   saver,
		opener:  browserOpener{},
		keys:    keys,
		mode:    ModeStartup,
		toolbar: newToolbar(),
		editor:  editor,
		input:   input,
		picker:  picker,
	}

	switch {
	case startPage != "":
		if err := m.openPage(startPage); err != nil {
			m.errMsg = err.Error()
			m.reloadPicker()
		} else {
			m.mode = ModeNormal
		}
	case !cfg.UI.StartMenu:
		if err := m.openPage("scratch"); err != nil {
			m.errMsg = err.Error()
			m.reloadPicker()
		} else {
			m.mode = ModeNormal
		}
	default:
		m.reloadPicker()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(min(72, max(20, m.width-4)))
		m.picker.SetSize(max(20, m.width-4), max(6, m.height-6))
		if m.needCenter {
			m.centerBuffer()
			m.needCenter = false
		}
		m.clampCursor()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == ModeStartup {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help {
		switch msg.String() {
		case "esc", "q", "?":
			m.help = false
		}
		return m, nil
	}

	switch m.mode {
	case ModeStartup:
		return m.updateStartup(msg)
	case ModeNormal:
		return m.updateNormal(msg)
	case ModeEditing:
		return m.updateEditing(msg)
	case ModeInput:
		return m.updateInput(msg)
	case ModeMove:
		return m.updateMove(msg)
	case ModeResize:
		return m.updateResize(msg)
	case ModeRectSelect:
		return m.updateRectSelect(msg)
	case ModeDraw:
		return m.updateDraw(msg)
	case ModeConnect:
		return m.updateConnect(msg)
	case ModeConfirm:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.pan(0, -2)
	case msg.Button == tea.MouseButtonWheelDown:
		m.pan(0, 2)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.cursorX = msg.X
		m.cursorY = msg.Y - 2
		m.clampCursor()
		m.clickSelect()
	}
	return m, nil
}

func (m *model) clickSelect() {
	buf := m.buffer()
	if buf == nil {
		return
	}
	wx, wy := m.worldCursor()
	if s := buf.board.ShapeAt(wx, wy); s != nil {
		buf.selection = []string{s.ID}
	} else {
		buf.selection = nil
	}
	m.syncToolbar()
}

func (m model) updateStartup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.saver.Flush()
		return m, tea.Quit
	case "esc":
		if len(m.buffers) > 0 {
			m.mode = ModeNormal
		}
		return m, nil
	case "n":
		m.startInput(InputNewPage, "new page name", "", "")
		return m, nil
	case "r":
		if it, ok := m.picker.SelectedItem().(pageItem); ok {
			m.startInput(InputRenamePage, "rename page", it.info.Name, it.info.Name)
		}
		return m, nil
	case "x", "delete":
		if it, ok := m.picker.SelectedItem().(pageItem); ok {
			m.confirm = ConfirmDeletePage
			m.confirmReturn = ModeStartup
			m.confirmTarget = it.info.Name
			m.mode = ModeConfirm
		}
		return m, nil
	case "enter":
		if it, ok := m.picker.SelectedItem().(pageItem); ok {
			if err := m.openPage(it.info.Name); err != nil {
				m.errMsg = err.Error()
			} else {
				m.mode = ModeNormal
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.buffer()
	if buf == nil {
		m.reloadPicker()
		m.mode = ModeStartup
		return m, nil
	}

	m.status = ""
	m.errMsg = ""

	if m.toolbar.handle(&m, msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cfg.UI.Confirmations {
			m.confirm = ConfirmQuit
			m.confirmReturn = ModeNormal
			m.mode = ModeConfirm
			return m, nil
		}
		m.saver.Flush()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help = true

	case m.handleNavigation(msg):

	case key.Matches(msg, m.keys.Select):
		m.toggleSelect()

	case key.Matches(msg, m.keys.SelectAll):
		buf.selection = buf.selection[:0]
		for _, s := range buf.board.Shapes {
			buf.selection = append(buf.selection, s.ID)
		}
		m.syncToolbar()

	case key.Matches(msg, m.keys.Clear):
		buf.selection = nil
		buf.history.Seal()
		m.syncToolbar()

	case key.Matches(msg, m.keys.RectSelect):
		m.anchorX, m.anchorY = m.worldCursor()
		m.mode = ModeRectSelect

	case key.Matches(msg, m.keys.New):
		m.addShape(ShapeBox)

	case key.Matches(msg, m.keys.Text):
		s := m.addShape(ShapeText)
		if s != nil {
			m.beginEdit(s)
		}

	case key.Matches(msg, m.keys.Edit):
		if s := m.primaryShape(); s != nil {
			m.beginEdit(s)
		} else {
			m.errMsg = "nothing under cursor"
		}

	case key.Matches(msg, m.keys.Connect):
		m.lineFrom = false
		m.mode = ModeConnect

	case key.Matches(msg, m.keys.Draw):
		m.startStroke(ShapePencil)

	case key.Matches(msg, m.keys.Highlight):
		m.startStroke(ShapeHighlighter)

	case key.Matches(msg, m.keys.Delete):
		ids := m.targetIDs()
		if len(ids) == 0 {
			m.errMsg = "nothing to delete"
			break
		}
		if m.cfg.UI.Confirmations {
			m.pendingDelete = ids
			m.confirm = ConfirmDeleteShapes
			m.confirmReturn = ModeNormal
			m.mode = ModeConfirm
		} else {
			m.deleteShapes(ids)
		}

	case key.Matches(msg, m.keys.MoveMode):
		m.beginMove()

	case key.Matches(msg, m.keys.Resize):
		m.beginResize()

	case key.Matches(msg, m.keys.Undo):
		if label, ok := buf.history.Undo(buf.board); ok {
			m.status = "undid " + label
			m.pruneSelection()
			m.persist(false)
		} else {
			m.status = "nothing to undo"
		}

	case key.Matches(msg, m.keys.Redo):
		if label, ok := buf.history.Redo(buf.board); ok {
			m.status = "redid " + label
			m.pruneSelection()
			m.persist(false)
		} else {
			m.status = "nothing to redo"
		}

	case key.Matches(msg, m.keys.Copy):
		targets := buf.board.ShapesByID(m.targetIDs())
		if len(targets) == 0 {
			m.errMsg = "nothing to copy"
			break
		}
		m.clip = cloneShapes(targets)
		m.status = fmt.Sprintf("copied %d shape(s)", len(m.clip))

	case key.Matches(msg, m.keys.Paste):
		m.paste()

	case key.Matches(msg, m.keys.Open):
		m.openUnderCursor()

	case key.Matches(msg, m.keys.Raise):
		if s := m.primaryShape(); s != nil {
			buf.board.Raise(s.ID)
			m.persist(false)
		}

	case key.Matches(msg, m.keys.Lower):
		if s := m.primaryShape(); s != nil {
			buf.board.Lower(s.ID)
			m.persist(false)
		}

	case key.Matches(msg, m.keys.NextBuffer):
		m.switchBuffer(1)

	case key.Matches(msg, m.keys.PrevBuffer):
		m.switchBuffer(-1)

	case key.Matches(msg, m.keys.Close):
		m.closeBuffer()

	case key.Matches(msg, m.keys.Pages):
		m.reloadPicker()
		m.mode = ModeStartup

	case key.Matches(msg, m.keys.ExportPNG):
		m.startInput(InputExportPNG, "export png to", m.exportPath("png"), "")

	case key.Matches(msg, m.keys.ExportTXT):
		m.startInput(InputExportText, "export text to", m.exportPath("txt"), "")
	}
	return m, nil
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		value := m.editor.Value()
		m.applyShapes("edit text", []string{m.editID}, func(s *Shape) {
			s.Text = value
			if s.AutoResize {
				s.ResetBounds()
			}
		})
		m.editor.Blur()
		m.mode = ModeNormal
		return m, nil
	case "esc":
		m.editor.Blur()
		m.mode = ModeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = m.inputReturn
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.mode = m.inputReturn
		m.finishInput(value)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) finishInput(value string) {
	switch m.purpose {
	case InputVideoURL:
		m.applyShapes("video link", []string{m.inputTarget}, func(s *Shape) {
			s.URL = value
		})

	case InputPortalPage:
		m.applyShapes("portal target", []string{m.inputTarget}, func(s *Shape) {
			s.Page = value
			s.ResetBounds()
		})

	case InputNewPage:
		if value == "" {
			return
		}
		if err := m.openPage(value); err != nil {
			m.errMsg = err.Error()
			return
		}
		m.mode = ModeNormal

	case InputRenamePage:
		if value == "" || value == m.inputTarget {
			return
		}
		if err := m.store.RenamePage(m.inputTarget, value); err != nil {
			m.errMsg = err.Error()
			return
		}
		for _, b := range m.buffers {
			if b.name == m.inputTarget {
				b.name = value
				b.board.Name = value
			}
		}
		m.log.Info("page renamed",
			zap.String("from", m.inputTarget),
			zap.String("to", value))
		m.reloadPicker()

	case InputExportPNG, InputExportText:
		if value == "" {
			return
		}
		buf := m.buffer()
		if buf == nil {
			return
		}
		var err error
		if m.purpose == InputExportPNG {
			err = ExportPNG(buf.board, value)
		} else {
			err = ExportText(buf.board, value)
		}
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.status = "exported to " + value
		m.log.Info("exported", zap.String("page", buf.name), zap.String("path", value))
	}
}

func (m model) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.buffer()
	if buf == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Move), key.Matches(msg, m.keys.Pan):
		dx, dy := keyDelta(msg.String())
		if key.Matches(msg, m.keys.Pan) {
			dx *= 4
			dy *= 2
		}
		for _, id := range m.moveIDs {
			buf.board.MoveShape(id, dx, dy)
		}
		m.moveCursor(dx, dy)

	case msg.String() == "enter" || msg.String() == " ":
		affected := withBoundLines(buf.board, buf.board.ShapesByID(m.moveIDs))
		buf.history.Push(HistoryEntry{
			Label:  "move",
			Before: m.moveOrig,
			After:  cloneShapes(affected),
		})
		m.persist(false)
		m.moveIDs, m.moveOrig = nil, nil
		m.mode = ModeNormal

	case msg.String() == "esc":
		for _, s := range m.moveOrig {
			buf.board.Replace(s.Clone())
		}
		m.moveIDs, m.moveOrig = nil, nil
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) updateResize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.buffer()
	s := (*Shape)(nil)
	if buf != nil {
		s = buf.board.Find(m.resizeID)
	}
	if s == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Move), key.Matches(msg, m.keys.Pan):
		dx, dy := keyDelta(msg.String())
		if key.Matches(msg, m.keys.Pan) {
			dx *= 2
			dy *= 2
		}
		minW, minH := s.minSize()
		s.Width = max(s.Width+dx, minW)
		s.Height = max(s.Height+dy, minH)
		s.AutoResize = false
		buf.board.rerouteLines(s)

	case msg.String() == "enter" || msg.String() == " ":
		affected := withBoundLines(buf.board, []*Shape{s})
		buf.history.Push(HistoryEntry{
			Label:  "resize",
			Before: m.resizeOrig,
			After:  cloneShapes(affected),
		})
		m.persist(false)
		m.resizeID, m.resizeOrig = "", nil
		m.mode = ModeNormal

	case msg.String() == "esc":
		for _, orig := range m.resizeOrig {
			buf.board.Replace(orig.Clone())
		}
		m.resizeID, m.resizeOrig = "", nil
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) updateRectSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.buffer()
	if buf == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch {
	case m.handleNavigation(msg):

	case msg.String() == "enter" || msg.String() == " ":
		wx, wy := m.worldCursor()
		r := normalizeRect(m.anchorX, m.anchorY, wx, wy)
		buf.selection = buf.selection[:0]
		for _, s := range buf.board.ShapesIn(r) {
			buf.selection = append(buf.selection, s.ID)
		}
		m.syncToolbar()
		m.mode = ModeNormal

	case msg.String() == "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) updateDraw(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.buffer()
	if buf == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch {
	case m.handleNavigation(msg):
		wx, wy := m.worldCursor()
		p := Point{X: wx, Y: wy}
		if len(m.stroke) == 0 || m.stroke[len(m.stroke)-1] != p {
			m.stroke = append(m.stroke, p)
		}

	case msg.String() == "enter" || msg.String() == " ":
		if len(m.stroke) >= 2 {
			s := NewShape(m.drawType, m.stroke[0].X, m.stroke[0].Y)
			s.Points = append([]Point(nil), m.stroke...)
			buf.board.Add(s)
			buf.history.Push(HistoryEntry{Label: "draw", Added: []*Shape{s.Clone()}})
			buf.selection = []string{s.ID}
			m.syncToolbar()
			m.persist(false)
		}
		m.stroke = nil
		m.mode = ModeNormal

	case msg.String() == "esc":
		m.stroke = nil
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) updateConnect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.buffer()
	if buf == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch {
	case m.handleNavigation(msg):

	case msg.String() == "enter" || msg.String() == " ":
		wx, wy := m.worldCursor()
		if !m.lineFrom {
			m.lineStart = Point{X: wx, Y: wy}
			m.lineFrom = true
			break
		}
		end := Point{X: wx, Y: wy}
		if end == m.lineStart {
			break
		}
		s := NewShape(ShapeLine, m.lineStart.X, m.lineStart.Y)
		s.Points = []Point{m.lineStart, end}
		s.EndArrow = true
		buf.board.Add(s)
		buf.board.AttachLine(s)
		buf.history.Push(HistoryEntry{Label: "connect", Added: []*Shape{s.Clone()}})
		buf.selection = []string{s.ID}
		m.syncToolbar()
		m.persist(false)
		m.lineFrom = false
		m.mode = ModeNormal

	case msg.String() == "esc":
		m.lineFrom = false
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		switch m.confirm {
		case ConfirmDeleteShapes:
			m.deleteShapes(m.pendingDelete)
			m.pendingDelete = nil
			m.mode = ModeNormal
		case ConfirmDeletePage:
			m.deletePage(m.confirmTarget)
			m.mode = ModeStartup
		case ConfirmQuit:
			m.saver.Flush()
			return m, tea.Quit
		}
	case "n", "N", "esc":
		m.pendingDelete = nil
		m.mode = m.confirmReturn
	}
	return m, nil
}

// --- selection and editing helpers ---

func (m *model) syncToolbar() {
	m.toolbar.sync(m.selectedShapes())
}

// toggleSelect flips the shape under the cursor in or out of the ordered
// selection.
func (m *model) toggleSelect() {
	buf := m.buffer()
	if buf == nil {
		return
	}
	wx, wy := m.worldCursor()
	s := buf.board.ShapeAt(wx, wy)
	if s == nil {
		return
	}
	for i, id := range buf.selection {
		if id == s.ID {
			buf.selection = append(buf.selection[:i], buf.selection[i+1:]...)
			m.syncToolbar()
			return
		}
	}
	buf.selection = append(buf.selection, s.ID)
	m.syncToolbar()
}

// pruneSelection drops selected IDs that no longer resolve, after undo or
// redo removed shapes.
func (m *model) pruneSelection() {
	buf := m.buffer()
	if buf == nil {
		return
	}
	kept := buf.selection[:0]
	for _, id := range buf.selection {
		if buf.board.Find(id) != nil {
			kept = append(kept, id)
		}
	}
	buf.selection = kept
	m.syncToolbar()
}

// primaryShape is the single selected shape, or failing that whatever sits
// under the cursor.
func (m *model) primaryShape() *Shape {
	buf := m.buffer()
	if buf == nil {
		return nil
	}
	if len(buf.selection) == 1 {
		return buf.board.Find(buf.selection[0])
	}
	wx, wy := m.worldCursor()
	return buf.board.ShapeAt(wx, wy)
}

// targetIDs is the selection, or the shape under the cursor when nothing is
// selected.
func (m *model) targetIDs() []string {
	buf := m.buffer()
	if buf == nil {
		return nil
	}
	if len(buf.selection) > 0 {
		return append([]string(nil), buf.selection...)
	}
	wx, wy := m.worldCursor()
	if s := buf.board.ShapeAt(wx, wy); s != nil {
		return []string{s.ID}
	}
	return nil
}

func (m *model) addShape(t ShapeType) *Shape {
	buf := m.buffer()
	if buf == nil {
		return nil
	}
	wx, wy := m.worldCursor()
	s := NewShape(t, wx, wy)
	buf.board.Add(s)
	buf.history.Push(HistoryEntry{Label: "add " + string(t), Added: []*Shape{s.Clone()}})
	buf.selection = []string{s.ID}
	m.syncToolbar()
	m.persist(false)
	return s
}

func (m *model) startStroke(t ShapeType) {
	wx, wy := m.worldCursor()
	m.drawType = t
	m.stroke = []Point{{X: wx, Y: wy}}
	m.mode = ModeDraw
}

func (m *model) beginMove() {
	buf := m.buffer()
	if buf == nil {
		return
	}
	ids := m.targetIDs()
	if len(ids) == 0 {
		m.errMsg = "nothing to move"
		return
	}
	targets := buf.board.ShapesByID(ids)
	m.moveIDs = ids
	m.moveOrig = cloneShapes(withBoundLines(buf.board, targets))
	m.mode = ModeMove
}

func (m *model) beginResize() {
	buf := m.buffer()
	if buf == nil {
		return
	}
	s := m.primaryShape()
	if s == nil {
		m.errMsg = "nothing to resize"
		return
	}
	if s.pointShape() {
		m.errMsg = "strokes and lines have no box to resize"
		return
	}
	m.resizeID = s.ID
	m.resizeOrig = cloneShapes(withBoundLines(buf.board, []*Shape{s}))
	m.mode = ModeResize
}

func (m *model) deleteShapes(ids []string) {
	buf := m.buffer()
	if buf == nil || len(ids) == 0 {
		return
	}
	entry := HistoryEntry{Label: "delete"}
	affected := buf.board.BoundLines(ids)
	entry.Before = cloneShapes(affected)

	var removed []*Shape
	for _, id := range ids {
		if s := buf.board.Remove(id); s != nil {
			removed = append(removed, s)
		}
	}
	if len(removed) == 0 {
		return
	}
	entry.Removed = cloneShapes(removed)
	entry.After = cloneShapes(affected)
	buf.history.Push(entry)
	buf.selection = nil
	m.syncToolbar()
	m.persist(false)
	m.status = fmt.Sprintf("deleted %d shape(s)", len(removed))
}

func (m *model) paste() {
	buf := m.buffer()
	if buf == nil {
		return
	}
	wx, wy := m.worldCursor()

	if len(m.clip) > 0 {
		base := m.clip[0].Bounds()
		added := make([]*Shape, 0, len(m.clip))
		for _, c := range m.clip {
			n := c.Clone()
			n.ID = uuid.NewString()
			n.BindStart, n.BindEnd = "", ""
			n.Translate(wx-base.X, wy-base.Y)
			buf.board.Add(n)
			added = append(added, n)
		}
		buf.history.Push(HistoryEntry{Label: "paste", Added: cloneShapes(added)})
		buf.selection = shapeIDs(added)
		m.syncToolbar()
		m.persist(false)
		return
	}

	raw, err := readClipboardText()
	if err != nil || strings.TrimSpace(raw) == "" {
		m.errMsg = "clipboard is empty"
		return
	}
	s := shapeFromClipboard(raw, wx, wy)
	buf.board.Add(s)
	buf.history.Push(HistoryEntry{Label: "paste", Added: []*Shape{s.Clone()}})
	buf.selection = []string{s.ID}
	m.syncToolbar()
	m.persist(false)
}

// shapeFromClipboard turns external clipboard content into the most useful
// shape: youtube links become video embeds, other links become html panels,
// markup is stripped to text.
func shapeFromClipboard(raw string, x, y int) *Shape {
	text := cleanClipboardText(raw)
	trimmed := strings.TrimSpace(text)

	switch {
	case looksLikeURL(trimmed):
		if h := urlHost(trimmed); h == "youtube.com" || h == "youtu.be" {
			s := NewShape(ShapeYouTube, x, y)
			s.URL = trimmed
			return s
		}
		s := NewShape(ShapeHTML, x, y)
		s.Text = trimmed
		s.URL = trimmed
		s.ResetBounds()
		return s
	case isHTML(raw):
		s := NewShape(ShapeHTML, x, y)
		s.Text = text
		s.ResetBounds()
		return s
	default:
		s := NewShape(ShapeText, x, y)
		s.Text = text
		s.ResetBounds()
		return s
	}
}

func (m *model) openUnderCursor() {
	s := m.primaryShape()
	if s == nil {
		m.errMsg = "nothing to open"
		return
	}
	switch s.Type {
	case ShapePortal:
		if s.Page == "" {
			m.beginEdit(s)
			return
		}
		if err := m.openPage(s.Page); err != nil {
			m.errMsg = err.Error()
		}
	case ShapeYouTube:
		if s.URL == "" {
			m.errMsg = "no video link set"
			return
		}
		if err := m.openExternal(s.URL); err != nil {
			m.errMsg = err.Error()
		} else {
			m.status = "opened " + urlHost(s.URL)
		}
	case ShapeHTML:
		if s.URL == "" {
			m.errMsg = "no link on this panel"
			return
		}
		if err := m.openExternal(s.URL); err != nil {
			m.errMsg = err.Error()
		} else {
			m.status = "opened " + urlHost(s.URL)
		}
	default:
		m.errMsg = "nothing to open"
	}
}

func (m *model) startInput(p InputPurpose, prompt, initial, target string) {
	m.purpose = p
	m.inputTarget = target
	m.inputReturn = m.mode
	m.input.Prompt = prompt + ": "
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
	m.mode = ModeInput
}

func (m *model) exportPath(ext string) string {
	buf := m.buffer()
	name := "board"
	if buf != nil {
		name = sanitizeFilename(buf.name)
	}
	return filepath.Join(m.cfg.Export.Directory, name+"."+ext)
}

// --- buffer management ---

func (m *model) buffer() *pageBuffer {
	if m.current < 0 || m.current >= len(m.buffers) {
		return nil
	}
	return m.buffers[m.current]
}

func (m *model) switchBuffer(step int) {
	if len(m.buffers) < 2 {
		return
	}
	m.current = ((m.current+step)%len(m.buffers) + len(m.buffers)) % len(m.buffers)
	m.syncToolbar()
	m.status = "page: " + m.buffers[m.current].name
}

func (m *model) closeBuffer() {
	if len(m.buffers) == 0 {
		return
	}
	m.saver.Flush()
	name := m.buffers[m.current].name
	m.buffers = append(m.buffers[:m.current], m.buffers[m.current+1:]...)
	if m.current >= len(m.buffers) {
		m.current = len(m.buffers) - 1
	}
	if len(m.buffers) == 0 {
		m.reloadPicker()
		m.mode = ModeStartup
		return
	}
	m.syncToolbar()
	m.status = "closed " + name
}

func (m *model) deletePage(name string) {
	m.saver.Flush()
	if err := m.store.DeletePage(name); err != nil {
		m.errMsg = err.Error()
		return
	}
	for i, b := range m.buffers {
		if b.name == name {
			m.buffers = append(m.buffers[:i], m.buffers[i+1:]...)
			if m.current >= len(m.buffers) {
				m.current = len(m.buffers) - 1
			}
			break
		}
	}
	m.log.Info("page deleted", zap.String("page", name))
	m.reloadPicker()
}

func (m *model) reloadPicker() {
	pages, err := m.store.ListPages()
	if err != nil {
		m.errMsg = err.Error()
	}
	items := make([]list.Item, 0, len(pages))
	for _, p := range pages {
		items = append(items, pageItem{info: p})
	}
	m.picker.SetItems(items)
}

func (m *model) centerBuffer() {
	buf := m.buffer()
	if buf == nil {
		return
	}
	if len(buf.board.Shapes) == 0 {
		w, h := m.canvasSize()
		buf.panX, buf.panY = 0, 0
		m.cursorX, m.cursorY = w/2, h/2
		m.clampCursor()
		return
	}
	r := buf.board.Bounds()
	m.centerOn(r.X+r.W/2, r.Y+r.H/2)
}

type pageItem struct {
	info PageInfo
}

func (i pageItem) Title() string { return i.info.Name }
func (i pageItem) Description() string {
	return fmt.Sprintf("%d shapes, updated %s", i.info.Shapes,
		i.info.UpdatedAt.Format("2006-01-02 15:04"))
}
func (i pageItem) FilterValue() string { return i.info.Name }

// --- toolbar environment ---

func (m *model) selectedShapes() []*Shape {
	buf := m.buffer()
	if buf == nil {
		return nil
	}
	return buf.board.ShapesByID(buf.selection)
}

func (m *model) applyShapes(label string, ids []string, mutate func(*Shape)) {
	m.mutateShapes(label, "", ids, mutate, false)
}

func (m *model) applyShapesEphemeral(label, coalesce string, ids []string, mutate func(*Shape)) {
	m.mutateShapes(label, coalesce, ids, mutate, true)
}

// mutateShapes is the single funnel for shape edits: snapshot, mutate,
// re-route bound lines, record history, persist.
func (m *model) mutateShapes(label, coalesce string, ids []string, mutate func(*Shape), ephemeral bool) {
	buf := m.buffer()
	if buf == nil {
		return
	}
	targets := buf.board.ShapesByID(ids)
	if len(targets) == 0 {
		return
	}
	affected := withBoundLines(buf.board, targets)
	entry := HistoryEntry{
		Label:       label,
		CoalesceKey: coalesce,
		Before:      cloneShapes(affected),
	}
	for _, s := range targets {
		mutate(s)
	}
	for _, s := range targets {
		buf.board.rerouteLines(s)
	}
	entry.After = cloneShapes(affected)
	buf.history.Push(entry)
	m.persist(ephemeral)
}

func (m *model) persist(ephemeral bool) {
	buf := m.buffer()
	if buf == nil {
		return
	}
	m.saver.Save(buf.name, buf.board.Shapes, ephemeral)
}

// openPage switches to an already-open page buffer or loads the page from
// the store, creating it on first use.
func (m *model) openPage(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty page name")
	}
	for i, b := range m.buffers {
		if b.name == name {
			m.current = i
			m.syncToolbar()
			m.status = "page: " + name
			return nil
		}
	}

	exists, err := m.store.PageExists(name)
	if err != nil {
		return err
	}
	if !exists {
		if err := m.store.CreatePage(name); err != nil {
			return err
		}
		m.log.Info("page created", zap.String("page", name))
	}
	shapes, err := m.store.LoadPage(name)
	if err != nil {
		return err
	}

	board := NewBoard(name)
	board.Shapes = shapes
	m.buffers = append(m.buffers, &pageBuffer{
		name:    name,
		board:   board,
		history: &History{},
	})
	m.current = len(m.buffers) - 1
	m.syncToolbar()
	if m.width > 0 {
		m.centerBuffer()
	} else {
		m.needCenter = true
	}
	m.status = "page: " + name
	return nil
}

func (m *model) openExternal(raw string) error {
	m.log.Debug("opening external link", zap.String("url", raw))
	return m.opener.OpenURL(raw)
}

// beginEdit opens the editing surface for a shape's primary content.
// Portals and video embeds get their reference prompts; everything else
// gets the inline textarea.
func (m *model) beginEdit(s *Shape) {
	switch s.Type {
	case ShapePortal:
		m.startInput(InputPortalPage, "portal page", s.Page, s.ID)
	case ShapeYouTube:
		m.editVideoLink(s)
	default:
		m.editID = s.ID
		m.editor.SetValue(s.Text)
		m.editor.Focus()
		m.mode = ModeEditing
	}
}

func (m *model) editVideoLink(s *Shape) {
	m.startInput(InputVideoURL, "video url", s.URL, s.ID)
}

// withBoundLines extends a target list with the lines bound to it, deduped,
// so snapshots cover everything a mutation can drag around.
func withBoundLines(b *Board, targets []*Shape) []*Shape {
	out := append([]*Shape(nil), targets...)
	out = append(out, b.BoundLines(shapeIDs(targets))...)
	return out
}

func normalizeRect(x1, y1, x2, y2 int) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, W: x2 - x1 + 1, H: y2 - y1 + 1}
}

// --- view ---

func (m model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.mode == ModeStartup || m.buffer() == nil {
		return m.startupView()
	}
	if m.help {
		return m.helpView()
	}

	buf := m.buffer()

	var b strings.Builder
	b.WriteString(m.renderBufferBar())
	b.WriteString("\n")
	b.WriteString(m.toolbar.render(m.selectedShapes(), m.width))
	b.WriteString("\n")

	w, h := m.canvasSize()
	editing := m.mode == ModeEditing
	editRows := 0
	if editing {
		editRows = m.editor.Height() + 1
		if editRows > h-1 {
			editRows = h - 1
		}
	}

	selected := make(map[string]bool, len(buf.selection))
	for _, id := range buf.selection {
		selected[id] = true
	}
	g := RenderBoard(buf.board, w, h-editRows, buf.panX, buf.panY, selected)
	m.overlays(g, buf)
	for _, line := range g.lines() {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if editing {
		b.WriteString(promptStyle.Render("editing (ctrl+s save, esc cancel)"))
		b.WriteString("\n")
		b.WriteString(m.editor.View())
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	return b.String()
}

// overlays draws the transient editing state on top of the rendered board:
// in-progress strokes, the connect preview, the rect-select frame and the
// cursor block.
func (m model) overlays(g *grid, buf *pageBuffer) {
	toScreen := func(p Point) Point {
		return Point{X: p.X - buf.panX, Y: p.Y - buf.panY}
	}

	switch m.mode {
	case ModeDraw:
		ch := '•'
		if m.drawType == ShapeHighlighter {
			ch = '█'
		}
		if len(m.stroke) == 1 {
			p := toScreen(m.stroke[0])
			g.set(p.X, p.Y, ch, defaultColor)
		}
		for i := 0; i < len(m.stroke)-1; i++ {
			plotStrokeSegment(g, toScreen(m.stroke[i]), toScreen(m.stroke[i+1]), ch, defaultColor)
		}

	case ModeConnect:
		if m.lineFrom {
			wx, wy := m.worldCursor()
			plotSegment(g, toScreen(m.lineStart), toScreen(Point{X: wx, Y: wy}), defaultColor)
		}

	case ModeRectSelect:
		wx, wy := m.worldCursor()
		r := normalizeRect(m.anchorX, m.anchorY, wx, wy)
		for x := r.X; x < r.X+r.W; x++ {
			g.mark(x-buf.panX, r.Y-buf.panY, '·')
			g.mark(x-buf.panX, r.Y+r.H-1-buf.panY, '·')
		}
		for y := r.Y; y < r.Y+r.H; y++ {
			g.mark(r.X-buf.panX, y-buf.panY, '·')
			g.mark(r.X+r.W-1-buf.panX, y-buf.panY, '·')
		}
	}

	if m.mode != ModeEditing && m.mode != ModeInput {
		g.set(m.cursorX, m.cursorY, '█', "")
	}
}

func (m model) renderBufferBar() string {
	var parts []string
	for i, b := range m.buffers {
		label := b.name
		if label == "" {
			label = fmt.Sprintf("page %d", i+1)
		}
		if i == m.current {
			parts = append(parts, bufferActiveStyle.Render(label))
		} else {
			parts = append(parts, bufferBarStyle.Render(label))
		}
	}
	bar := strings.Join(parts, " ")
	if lipgloss.Width(bar) > m.width {
		bar = truncate(m.buffers[m.current].name, m.width)
	}
	return bar
}

func (m model) statusLine() string {
	if m.mode == ModeInput {
		return m.input.View()
	}

	var s string
	switch m.mode {
	case ModeMove:
		s = fmt.Sprintf("MOVE %d shape(s): arrows move, enter done, esc cancel", len(m.moveIDs))
	case ModeResize:
		s = "RESIZE: arrows change size, enter done, esc cancel"
	case ModeRectSelect:
		s = "SELECT: stretch the frame, enter select, esc cancel"
	case ModeDraw:
		if m.drawType == ShapeHighlighter {
			s = "HIGHLIGHT: move to paint, enter done, esc discard"
		} else {
			s = "DRAW: move to draw, enter done, esc discard"
		}
	case ModeConnect:
		if m.lineFrom {
			s = "CONNECT: pick the end point (enter), esc cancel"
		} else {
			s = "CONNECT: pick the start point (enter), esc cancel"
		}
	case ModeConfirm:
		s = m.confirmQuestion()
	default:
		buf := m.buffer()
		wx, wy := m.worldCursor()
		s = fmt.Sprintf("(%d,%d)", wx, wy)
		if buf != nil && len(buf.selection) > 0 {
			s += fmt.Sprintf("  %d selected", len(buf.selection))
		}
		if m.status != "" {
			s += "  " + m.status
		} else {
			s += "  ? help"
		}
	}

	if m.errMsg != "" {
		return errorStyle.Render(padRight(s+"  "+m.errMsg, m.width))
	}
	return statusBarStyle.Render(padRight(s, m.width-2))
}

func (m model) startupView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("scrawl " + version))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("  ")
	}
	switch m.mode {
	case ModeInput:
		b.WriteString(m.input.View())
	case ModeConfirm:
		b.WriteString(m.confirmQuestion())
	default:
		hint := "enter open, n new, r rename, x delete, q quit"
		if len(m.buffers) > 0 {
			hint += ", esc back"
		}
		b.WriteString(helpStyle.Render(hint))
	}
	return b.String()
}

func (m model) confirmQuestion() string {
	switch m.confirm {
	case ConfirmDeleteShapes:
		return fmt.Sprintf("delete %d shape(s)? (y/n)", len(m.pendingDelete))
	case ConfirmDeletePage:
		return fmt.Sprintf("delete page %q and all its shapes? (y/n)", m.confirmTarget)
	case ConfirmQuit:
		return "quit? (y/n)"
	}
	return ""
}

func (m model) helpView() string {
	titles := []string{"Navigate & select", "Create", "Change", "Toolbar & stacking", "Pages & export"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("scrawl keys"))
	b.WriteString("\n\n")
	for i, col := range m.keys.FullHelp() {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		b.WriteString(title)
		b.WriteString("\n")
		for _, binding := range col {
			h := binding.Help()
			if h.Key == "" && h.Desc == "" {
				continue
			}
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("esc to close"))
	return b.String()
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
