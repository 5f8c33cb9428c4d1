package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Move       key.Binding
	Pan        key.Binding
	Select     key.Binding
	SelectAll  key.Binding
	RectSelect key.Binding
	Clear      key.Binding
	New        key.Binding
	Connect    key.Binding
	Draw       key.Binding
	Highlight  key.Binding
	Text       key.Binding
	Edit       key.Binding
	Delete     key.Binding
	MoveMode   key.Binding
	Resize     key.Binding
	Undo       key.Binding
	Redo       key.Binding
	Copy       key.Binding
	Paste      key.Binding
	Open       key.Binding
	Raise      key.Binding
	Lower      key.Binding
	NextChip   key.Binding
	PrevChip   key.Binding
	CycleUp    key.Binding
	CycleDown  key.Binding
	Activate   key.Binding
	NextBuffer key.Binding
	PrevBuffer key.Binding
	Close      key.Binding
	Pages      key.Binding
	ExportPNG  key.Binding
	ExportTXT  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Move: key.NewBinding(
		key.WithKeys("up", "down", "left", "right", "h", "j", "k", "l"),
		key.WithHelp("↑↓←→/hjkl", "move cursor"),
	),
	Pan: key.NewBinding(
		key.WithKeys("H", "J", "K", "L"),
		key.WithHelp("HJKL", "pan view"),
	),
	Select: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "select shape"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	RectSelect: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "rect select"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new shape"),
	),
	Connect: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "connect line"),
	),
	Draw: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "draw pencil"),
	),
	Highlight: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "highlighter"),
	),
	Text: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "text"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit shape"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "delete"),
	),
	MoveMode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Resize: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "resize"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paste"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open page/link"),
	),
	Raise: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "raise"),
	),
	Lower: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "lower"),
	),
	NextChip: key.NewBinding(
		key.WithKeys("]", "tab"),
		key.WithHelp("[/]", "toolbar focus"),
	),
	PrevChip: key.NewBinding(
		key.WithKeys("[", "shift+tab"),
	),
	CycleUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+/-", "cycle value"),
	),
	CycleDown: key.NewBinding(
		key.WithKeys("-", "_"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "apply"),
	),
	NextBuffer: key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("{/}", "switch page"),
	),
	PrevBuffer: key.NewBinding(
		key.WithKeys("{"),
	),
	Close: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "close page"),
	),
	Pages: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "page list"),
	),
	ExportPNG: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "export png"),
	),
	ExportTXT: key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "export txt"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Select, k.New, k.NextChip, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Pan, k.Select, k.SelectAll, k.RectSelect, k.Clear},
		{k.New, k.Connect, k.Draw, k.Highlight, k.Text, k.Edit, k.Delete},
		{k.MoveMode, k.Resize, k.Undo, k.Redo, k.Copy, k.Paste},
		{k.NextChip, k.CycleUp, k.Activate, k.Open, k.Raise, k.Lower},
		{k.NextBuffer, k.Close, k.Pages, k.ExportPNG, k.ExportTXT, k.Help, k.Quit},
	}
}
