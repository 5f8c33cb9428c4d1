package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeEditing
	ModeInput
	ModeMove
	ModeResize
	ModeRectSelect
	ModeDraw
	ModeConnect
	ModeConfirm
)

// InputPurpose tells ModeInput what the prompt line is collecting.
type InputPurpose int

const (
	InputVideoURL InputPurpose = iota
	InputPortalPage
	InputNewPage
	InputRenamePage
	InputExportPNG
	InputExportText
)

type ConfirmAction int

const (
	ConfirmDeleteShapes ConfirmAction = iota
	ConfirmDeletePage
	ConfirmQuit
)

// Rows taken by the buffer bar, toolbar and status line.
const chromeRows = 3
