package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Quit      key.Binding
	PreviewUp key.Binding
	PreviewDn key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+k"),
		key.WithHelp("up/C-k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+j"),
		key.WithHelp("dn/C-j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	PreviewUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "preview up"),
	),
	PreviewDn: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "preview down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "preview pgup"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "preview pgdn"),
	),
}

// viewerKeyMap holds the bindings of the song viewer.
type viewerKeyMap struct {
	Back         key.Binding
	Quit         key.Binding
	ToggleMode   key.Binding
	ToggleScroll key.Binding
	Faster       key.Binding
	Slower       key.Binding
	Play         key.Binding
	SeekBack     key.Binding
	SeekFwd      key.Binding
	OffsetDown   key.Binding
	OffsetUp     key.Binding
	OffsetDownL  key.Binding
	OffsetUpL    key.Binding
	TapStart     key.Binding
	Calibrate    key.Binding
	ClearCalib   key.Binding
	CopyLRC      key.Binding
	LineUp       key.Binding
	LineDown     key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
}

var viewerKeys = viewerKeyMap{
	Back:         key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
	Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit")),
	ToggleMode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "manual/sync")),
	ToggleScroll: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "auto-scroll")),
	Faster:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
	Slower:       key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
	Play:         key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
	SeekBack:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("left", "-5s")),
	SeekFwd:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("right", "+5s")),
	OffsetDown:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "offset -0.5s")),
	OffsetUp:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "offset +0.5s")),
	OffsetDownL:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "offset -1s")),
	OffsetUpL:    key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "offset +1s")),
	TapStart:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "lyrics start now")),
	Calibrate:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "calibrate")),
	ClearCalib:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear calibration")),
	CopyLRC:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy LRC")),
	LineUp:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up", "scroll up")),
	LineDown:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("dn", "scroll down")),
	PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
	PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
}

// calibKeyMap is active while the calibration overlay is open.
type calibKeyMap struct {
	Tap    key.Binding
	Undo   key.Binding
	Reset  key.Binding
	Save   key.Binding
	Cancel key.Binding
	Play   key.Binding
}

var calibKeys = calibKeyMap{
	Tap:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "tap")),
	Undo:   key.NewBinding(key.WithKeys("backspace", "u"), key.WithHelp("bksp", "undo")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Save:   key.NewBinding(key.WithKeys("w", "ctrl+s"), key.WithHelp("w", "save")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/pause")),
}
