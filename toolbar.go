package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// toolbarEnv is the slice of the editor that widgets are allowed to touch:
// the live selection, the mutation funnel, and the two bridges. Tests stand
// in a fake.
type toolbarEnv interface {
	selectedShapes() []*Shape
	applyShapes(label string, ids []string, mutate func(*Shape))
	applyShapesEphemeral(label, coalesce string, ids []string, mutate func(*Shape))
	beginEdit(s *Shape)
	editVideoLink(s *Shape)
	openPage(name string) error
	openExternal(raw string) error
}

// widgetDef is one stateless toolbar entry. value derives what the chip
// displays from the matching shapes; apply pushes a new value onto all of
// them through the environment. delta is +1/-1 for cycling and 0 for
// activation.
type widgetDef struct {
	action    ContextAction
	value     func(match []*Shape) string
	apply     func(env toolbarEnv, match []*Shape, delta int)
	ephemeral bool
}

// run filters already happened upstream; an empty match means the
// selection drifted out from under the toolbar, which is a no-op.
func (w widgetDef) run(env toolbarEnv, match []*Shape, delta int) {
	if len(match) == 0 {
		return
	}
	w.apply(env, match, delta)
}

func shapeIDs(shapes []*Shape) []string {
	ids := make([]string, len(shapes))
	for i, s := range shapes {
		ids[i] = s.ID
	}
	return ids
}

func coalesceKey(a ContextAction, ids []string) string {
	return a.String() + ":" + strings.Join(ids, ",")
}

// commonString reduces a per-shape string to a display value, collapsing
// disagreement to the mixed marker.
func commonString(match []*Shape, get func(*Shape) string) string {
	if len(match) == 0 {
		return ""
	}
	v := get(match[0])
	for _, s := range match[1:] {
		if get(s) != v {
			return mixedMarker
		}
	}
	return v
}

// allSet reports whether a flag is on for every matching shape. Toggles
// treat a mixed selection as off, so toggling from mixed turns everything
// on.
func allSet(match []*Shape, get func(*Shape) bool) bool {
	for _, s := range match {
		if !get(s) {
			return false
		}
	}
	return len(match) > 0
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func textStyleName(s *Shape) string {
	switch {
	case s.Bold && s.Italic:
		return "bold+italic"
	case s.Bold:
		return "bold"
	case s.Italic:
		return "italic"
	}
	return "plain"
}

var textStyleOrder = []string{"plain", "bold", "italic", "bold+italic"}

// widgetCatalog holds every toolbar widget, keyed by action. Entries are
// rendered in resolver order, so the map needs no order of its own.
var widgetCatalog = map[ContextAction]widgetDef{
	ActionEdit: {
		action: ActionEdit,
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			if len(match) == 1 {
				env.beginEdit(match[0])
			}
		},
	},
	ActionAutoResize: {
		action: ActionAutoResize,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string { return onOff(s.AutoResize) })
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			target := !allSet(match, func(s *Shape) bool { return s.AutoResize })
			env.applyShapes("autoresize", shapeIDs(match), func(s *Shape) {
				s.AutoResize = target
				if target {
					s.ResetBounds()
				}
			})
		},
	},
	ActionSwatch: {
		action:    ActionSwatch,
		ephemeral: true,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string { return s.Color })
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			if delta == 0 {
				delta = 1
			}
			next := nextColor(match[0].Color, delta)
			ids := shapeIDs(match)
			env.applyShapesEphemeral("color", coalesceKey(ActionSwatch, ids), ids, func(s *Shape) {
				s.Color = next
			})
		},
	},
	ActionNoFill: {
		action: ActionNoFill,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string { return onOff(!s.NoFill) })
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			filled := !allSet(match, func(s *Shape) bool { return !s.NoFill })
			env.applyShapes("fill", shapeIDs(match), func(s *Shape) {
				s.NoFill = !filled
			})
		},
	},
	ActionStrokeStyle: {
		action: ActionStrokeStyle,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string { return string(s.Stroke) })
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			next := StrokeDashed
			if match[0].Stroke == StrokeDashed {
				next = StrokeSolid
			}
			env.applyShapes("stroke", shapeIDs(match), func(s *Shape) {
				s.Stroke = next
			})
		},
	},
	ActionScale: {
		action:    ActionScale,
		ephemeral: true,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string { return string(s.Scale) })
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			if delta == 0 {
				delta = 1
			}
			next := nextScale(match[0].Scale, delta)
			ids := shapeIDs(match)
			env.applyShapesEphemeral("scale", coalesceKey(ActionScale, ids), ids, func(s *Shape) {
				s.SetScale(next)
			})
		},
	},
	ActionTextStyle: {
		action:    ActionTextStyle,
		ephemeral: true,
		value: func(match []*Shape) string {
			return commonString(match, textStyleName)
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			if delta == 0 {
				delta = 1
			}
			cur := 0
			for i, name := range textStyleOrder {
				if name == textStyleName(match[0]) {
					cur = i
					break
				}
			}
			n := len(textStyleOrder)
			next := textStyleOrder[((cur+delta)%n+n)%n]
			ids := shapeIDs(match)
			env.applyShapesEphemeral("style", coalesceKey(ActionTextStyle, ids), ids, func(s *Shape) {
				s.Bold = strings.Contains(next, "bold")
				s.Italic = strings.Contains(next, "italic")
			})
		},
	},
	ActionVideoLink: {
		action: ActionVideoLink,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string {
				if s.URL == "" {
					return "none"
				}
				return urlHost(s.URL)
			})
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			if len(match) == 1 {
				env.editVideoLink(match[0])
			}
		},
	},
	ActionViewMode: {
		action: ActionViewMode,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string {
				if s.Collapsed {
					return "collapsed"
				}
				return "expanded"
			})
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			target := !allSet(match, func(s *Shape) bool { return s.Collapsed })
			env.applyShapes("view", shapeIDs(match), func(s *Shape) {
				s.SetCollapsed(target)
			})
		},
	},
	ActionArrows: {
		action:    ActionArrows,
		ephemeral: true,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string { return s.arrowLabel() })
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			if delta == 0 {
				delta = 1
			}
			probe := match[0].Clone()
			probe.cycleArrows(delta)
			ids := shapeIDs(match)
			env.applyShapesEphemeral("arrows", coalesceKey(ActionArrows, ids), ids, func(s *Shape) {
				s.StartArrow, s.EndArrow = probe.StartArrow, probe.EndArrow
			})
		},
	},
	ActionOpenPage: {
		action: ActionOpenPage,
		value: func(match []*Shape) string {
			return commonString(match, func(s *Shape) string {
				if s.Page == "" {
					return "unset"
				}
				return s.Page
			})
		},
		apply: func(env toolbarEnv, match []*Shape, delta int) {
			if len(match) != 1 {
				return
			}
			if match[0].Page == "" {
				env.beginEdit(match[0])
				return
			}
			_ = env.openPage(match[0].Page)
		},
	},
}

// toolbar is the chip bar above the canvas. It holds no shape state: the
// action list is re-resolved from the selection on every sync and values
// are derived at render time.
type toolbar struct {
	actions []ContextAction
	focus   int
}

func newToolbar() toolbar {
	return toolbar{focus: -1}
}

// sync re-resolves the action list for the current selection, keeping
// focus on the same action when it survives.
func (t *toolbar) sync(sel []*Shape) {
	var focusedAction ContextAction = -1
	if t.focus >= 0 && t.focus < len(t.actions) {
		focusedAction = t.actions[t.focus]
	}

	t.actions = ActionsForSelection(sel)

	t.focus = -1
	for i, a := range t.actions {
		if a == focusedAction {
			t.focus = i
			break
		}
	}
}

func (t *toolbar) next() {
	if len(t.actions) == 0 {
		return
	}
	t.focus++
	if t.focus >= len(t.actions) {
		t.focus = 0
	}
}

func (t *toolbar) prev() {
	if len(t.actions) == 0 {
		return
	}
	t.focus--
	if t.focus < 0 {
		t.focus = len(t.actions) - 1
	}
}

// handle consumes toolbar keys. Returns false when the key should fall
// through to normal-mode handling.
func (t *toolbar) handle(env toolbarEnv, msg tea.KeyMsg) bool {
	if len(t.actions) == 0 {
		return false
	}

	switch {
	case key.Matches(msg, keys.NextChip):
		t.next()
		return true
	case key.Matches(msg, keys.PrevChip):
		t.prev()
		return true
	}

	if t.focus < 0 || t.focus >= len(t.actions) {
		return false
	}
	w, ok := widgetCatalog[t.actions[t.focus]]
	if !ok {
		return false
	}
	match := shapesFor(w.action, env.selectedShapes())

	switch {
	case key.Matches(msg, keys.Activate):
		w.run(env, match, 0)
		return true
	case key.Matches(msg, keys.CycleUp):
		w.run(env, match, 1)
		return true
	case key.Matches(msg, keys.CycleDown):
		w.run(env, match, -1)
		return true
	case msg.String() == "esc":
		t.focus = -1
		return true
	}
	return false
}

// render draws the chip bar. No selection means no bar.
func (t *toolbar) render(sel []*Shape, width int) string {
	if len(t.actions) == 0 {
		return ""
	}

	var chips []string
	for i, a := range t.actions {
		w, ok := widgetCatalog[a]
		if !ok {
			continue
		}
		label := a.String()
		if w.value != nil {
			if v := w.value(shapesFor(a, sel)); v != "" {
				label += " " + v
			}
		}

		style := chipStyle
		if i == t.focus {
			style = chipFocusStyle
		} else if strings.HasSuffix(label, mixedMarker) {
			style = chipMixedStyle
		}
		chips = append(chips, style.Render(label))
	}

	// Whole chips only; a half-truncated chip would tear its escape codes.
	bar := ""
	for _, chip := range chips {
		candidate := chip
		if bar != "" {
			candidate = bar + " " + chip
		}
		if lipgloss.Width(candidate) > width {
			break
		}
		bar = candidate
	}
	return bar
}
