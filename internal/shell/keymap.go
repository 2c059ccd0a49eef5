package shell

import "github.com/charmbracelet/bubbles/key"

// globalKeyMap holds the bindings handled the same way regardless of which
// view is active, grounded on the key.Binding/key.Matches idiom used by the
// pack's other bubbletea dashboards (shubh-io-DockWatch, chenpu17-k8s_monitor).
type globalKeyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	ConfirmY key.Binding
	ConfirmN key.Binding
}

var globalKeys = globalKeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
	ConfirmY: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	ConfirmN: key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
}

// helpBindingFrom projects a key.Binding into the footer's helpBinding shape.
func helpBindingFrom(b key.Binding) helpBinding {
	h := b.Help()
	return helpBinding{Key: h.Key, Label: h.Desc}
}

// globalHelpBindings returns the footer entries for the quit and next-tab
// bindings. The views build their own footer lists and do not call it.
func globalHelpBindings() []helpBinding {
	return []helpBinding{helpBindingFrom(globalKeys.Quit), helpBindingFrom(globalKeys.NextTab)}
}
