package config

import "github.com/charmbracelet/bubbles/key"

// Action names usable in the "keys" section of the config file
const (
	ActionUp         = "up"
	ActionDown       = "down"
	ActionPageUp     = "pageUp"
	ActionPageDown   = "pageDown"
	ActionTop        = "top"
	ActionBottom     = "bottom"
	ActionLeft       = "left"
	ActionRight      = "right"
	ActionStepInto   = "stepInto"
	ActionStepOut    = "stepOut"
	ActionLoadDir    = "loadDir"
	ActionLoadTrack  = "loadTrack"
	ActionDelete     = "delete"
	ActionYank       = "yank"
	ActionPaste      = "paste"
	ActionCycleRoot  = "cycleRoot"
	ActionAddRoot    = "addRoot"
	ActionRemoveRoot = "removeRoot"
	ActionSearch     = "search"
	ActionCopyPath   = "copyPath"
	ActionReload     = "reload"
	ActionSwitchPane = "switchPane"
	ActionConfirm    = "confirm"
	ActionCancel     = "cancel"
	ActionQuit       = "quit"
)

type binding struct {
	keys []string
	help string
}

var defaultKeys = map[string]binding{
	ActionUp:         {[]string{"up", "k"}, "up"},
	ActionDown:       {[]string{"down", "j"}, "down"},
	ActionPageUp:     {[]string{"pgup", "ctrl+u"}, "page up"},
	ActionPageDown:   {[]string{"pgdown", "ctrl+d"}, "page down"},
	ActionTop:        {[]string{"home", "g"}, "top"},
	ActionBottom:     {[]string{"end", "G"}, "bottom"},
	ActionLeft:       {[]string{"left", "h"}, "close / parent"},
	ActionRight:      {[]string{"right", "l"}, "open / add"},
	ActionStepInto:   {[]string{"enter"}, "step into"},
	ActionStepOut:    {[]string{"backspace"}, "step out"},
	ActionLoadDir:    {[]string{"L"}, "add directory"},
	ActionLoadTrack:  {[]string{"a"}, "add track"},
	ActionDelete:     {[]string{"d", "delete"}, "delete"},
	ActionYank:       {[]string{"y"}, "yank"},
	ActionPaste:      {[]string{"p"}, "paste"},
	ActionCycleRoot:  {[]string{"o"}, "next root"},
	ActionAddRoot:    {[]string{"A"}, "add root"},
	ActionRemoveRoot: {[]string{"D"}, "remove root"},
	ActionSearch:     {[]string{"/"}, "search"},
	ActionCopyPath:   {[]string{"c"}, "copy path"},
	ActionReload:     {[]string{"r"}, "reload"},
	ActionSwitchPane: {[]string{"tab"}, "switch pane"},
	ActionConfirm:    {[]string{"enter", "y"}, "confirm"},
	ActionCancel:     {[]string{"esc", "n"}, "cancel"},
	ActionQuit:       {[]string{"q", "ctrl+c"}, "quit"},
}

// KeyMap holds the bindings for every action
type KeyMap struct {
	Up, Down, PageUp, PageDown, Top, Bottom key.Binding
	Left, Right, StepInto, StepOut         key.Binding
	LoadDir, LoadTrack                     key.Binding
	Delete, Yank, Paste                    key.Binding
	CycleRoot, AddRoot, RemoveRoot         key.Binding
	Search, CopyPath, Reload               key.Binding
	SwitchPane, Confirm, Cancel, Quit      key.Binding
}

// DefaultKeyMap returns the built-in bindings
func DefaultKeyMap() KeyMap {
	return NewKeyMap(nil)
}

// NewKeyMap builds bindings, taking keys from overrides where an action
// is listed there and from the defaults otherwise.
func NewKeyMap(overrides map[string][]string) KeyMap {
	b := func(action string) key.Binding {
		def := defaultKeys[action]
		keys := def.keys
		if o, ok := overrides[action]; ok && len(o) > 0 {
			keys = o
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], def.help))
	}
	return KeyMap{
		Up:         b(ActionUp),
		Down:       b(ActionDown),
		PageUp:     b(ActionPageUp),
		PageDown:   b(ActionPageDown),
		Top:        b(ActionTop),
		Bottom:     b(ActionBottom),
		Left:       b(ActionLeft),
		Right:      b(ActionRight),
		StepInto:   b(ActionStepInto),
		StepOut:    b(ActionStepOut),
		LoadDir:    b(ActionLoadDir),
		LoadTrack:  b(ActionLoadTrack),
		Delete:     b(ActionDelete),
		Yank:       b(ActionYank),
		Paste:      b(ActionPaste),
		CycleRoot:  b(ActionCycleRoot),
		AddRoot:    b(ActionAddRoot),
		RemoveRoot: b(ActionRemoveRoot),
		Search:     b(ActionSearch),
		CopyPath:   b(ActionCopyPath),
		Reload:     b(ActionReload),
		SwitchPane: b(ActionSwitchPane),
		Confirm:    b(ActionConfirm),
		Cancel:     b(ActionCancel),
		Quit:       b(ActionQuit),
	}
}

// ShortHelp lists the bindings shown in the status line
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Right, k.StepInto, k.StepOut, k.Yank, k.Paste, k.Delete, k.Search, k.CycleRoot, k.Quit}
}
