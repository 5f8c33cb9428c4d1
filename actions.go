package main

import "sort"

// ContextAction identifies one entry of the selection toolbar. Declaration
// order is display order; the resolver sorts by it, so the toolbar always
// lists actions in this sequence no matter how the selection was picked.
type ContextAction int

const (
	ActionEdit ContextAction = iota
	ActionAutoResize
	ActionSwatch
	ActionNoFill
	ActionStrokeStyle
	ActionScale
	ActionTextStyle
	ActionVideoLink
	ActionViewMode
	ActionArrows
	ActionOpenPage
)

func (a ContextAction) String() string {
	switch a {
	case ActionEdit:
		return "edit"
	case ActionAutoResize:
		return "autoresize"
	case ActionSwatch:
		return "color"
	case ActionNoFill:
		return "fill"
	case ActionStrokeStyle:
		return "stroke"
	case ActionScale:
		return "scale"
	case ActionTextStyle:
		return "style"
	case ActionVideoLink:
		return "link"
	case ActionViewMode:
		return "view"
	case ActionArrows:
		return "arrows"
	case ActionOpenPage:
		return "open"
	}
	return "unknown"
}

// shapeActions maps each shape type to the toolbar actions it supports.
// The table is fixed at startup and never mutated; types absent from it
// (including unknown tags from newer files) support nothing.
var shapeActions = map[ShapeType][]ContextAction{
	ShapeBox:         {ActionSwatch, ActionNoFill, ActionStrokeStyle},
	ShapeEllipse:     {ActionSwatch, ActionNoFill, ActionStrokeStyle},
	ShapePolygon:     {ActionSwatch, ActionNoFill, ActionStrokeStyle},
	ShapeLine:        {ActionEdit, ActionSwatch, ActionArrows},
	ShapePencil:      {ActionSwatch},
	ShapeHighlighter: {ActionSwatch},
	ShapeText:        {ActionEdit, ActionAutoResize, ActionSwatch, ActionScale, ActionTextStyle},
	ShapeHTML:        {ActionAutoResize, ActionScale},
	ShapeYouTube:     {ActionVideoLink},
	ShapePortal:      {ActionEdit, ActionAutoResize, ActionScale, ActionViewMode, ActionOpenPage},
}

// singleOnly lists actions that operate on exactly one shape and therefore
// disappear from multi-selections.
var singleOnly = map[ContextAction]bool{
	ActionEdit:      true,
	ActionVideoLink: true,
	ActionOpenPage:  true,
}

// supportsAction reports whether a shape type's table includes the action.
func supportsAction(t ShapeType, a ContextAction) bool {
	for _, x := range shapeActions[t] {
		if x == a {
			return true
		}
	}
	return false
}

// ActionsForSelection resolves the toolbar contents for an ordered
// selection: the intersection of every selected shape's action set, minus
// single-shape actions when more than one shape is selected, in declaration
// order. An empty selection resolves to nothing.
func ActionsForSelection(sel []*Shape) []ContextAction {
	if len(sel) == 0 {
		return nil
	}

	set := make(map[ContextAction]bool, len(shapeActions[sel[0].Type]))
	for _, a := range shapeActions[sel[0].Type] {
		set[a] = true
	}

	for _, s := range sel[1:] {
		if len(set) == 0 {
			break
		}
		for a := range set {
			if !supportsAction(s.Type, a) {
				delete(set, a)
			}
		}
	}

	if len(sel) > 1 {
		for a := range set {
			if singleOnly[a] {
				delete(set, a)
			}
		}
	}

	out := make([]ContextAction, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// shapesFor filters a selection down to the shapes whose type supports the
// action, preserving selection order. Widgets operate on this subset only,
// so a selection that drifted out from under the toolbar degrades to a
// no-op instead of corrupting unrelated shapes.
func shapesFor(a ContextAction, sel []*Shape) []*Shape {
	var out []*Shape
	for _, s := range sel {
		if supportsAction(s.Type, a) {
			out = append(out, s)
		}
	}
	return out
}
