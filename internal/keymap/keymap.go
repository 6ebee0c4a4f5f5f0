// Package keymap defines key bindings and action resolution for the
// application.
package keymap

// Binding binds keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// Bindings contains every key binding, in help display order.
var Bindings = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", ContextGlobal},
	{ActionHelp, []string{"?"}, "Toggle help", ContextGlobal},

	{ActionCursorLeft, []string{"left", "h"}, "Previous user", ContextList},
	{ActionCursorRight, []string{"right", "l"}, "Next user", ContextList},
	{ActionCursorFirst, []string{"home", "g"}, "First user", ContextList},
	{ActionCursorLast, []string{"end", "G"}, "Last user", ContextList},
	{ActionOpen, []string{"enter", " "}, "Watch stories", ContextList},
	{ActionReload, []string{"r"}, "Reload catalog", ContextList},

	{ActionPrevStory, []string{"left", "h"}, "Previous story", ContextViewer},
	{ActionNextStory, []string{"right", "l"}, "Next story", ContextViewer},
	{ActionClose, []string{"esc"}, "Close viewer", ContextViewer},
}

// ByContext returns the bindings of the given contexts, in order.
func ByContext(contexts ...string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		for _, c := range contexts {
			if kb.Context == c {
				result = append(result, kb)
				break
			}
		}
	}
	return result
}

// ForList returns the resolver used while the story list has focus.
func ForList() *Resolver {
	return NewResolver(ByContext(ContextGlobal, ContextList))
}

// ForViewer returns the resolver used while the viewer is open.
func ForViewer() *Resolver {
	return NewResolver(ByContext(ContextGlobal, ContextViewer))
}
