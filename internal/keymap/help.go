package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

var keyLabels = map[string]string{
	"left":  "←",
	"right": "→",
	"enter": "⏎",
	" ":     "space",
}

// HelpMap adapts a resolver to bubbles/help.
type HelpMap struct {
	short []key.Binding
	full  [][]key.Binding
}

// Help builds the help key map of r. The short help skips global bindings
// except help itself; the full help groups bindings by context.
func (r *Resolver) Help() HelpMap {
	var h HelpMap
	groups := make(map[string]int)
	for _, b := range r.bindings {
		kb := key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(label(b.Keys), strings.ToLower(b.Description)),
		)
		if b.Context != ContextGlobal || b.Action == ActionHelp {
			h.short = append(h.short, kb)
		}
		i, ok := groups[b.Context]
		if !ok {
			i = len(h.full)
			groups[b.Context] = i
			h.full = append(h.full, nil)
		}
		h.full[i] = append(h.full[i], kb)
	}
	return h
}

// ShortHelp implements help.KeyMap.
func (h HelpMap) ShortHelp() []key.Binding { return h.short }

// FullHelp implements help.KeyMap.
func (h HelpMap) FullHelp() [][]key.Binding { return h.full }

func label(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if l, ok := keyLabels[k]; ok {
			k = l
		}
		parts = append(parts, k)
	}
	return strings.Join(parts, "/")
}
