// Package handler chains key action handlers.
package handler

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/stories/internal/keymap"
)

// Result is the outcome of a handler.
type Result struct {
	Handled bool
	Cmd     tea.Cmd
}

// NotHandled is returned when a handler ignores the action.
var NotHandled = Result{}

// HandledNoCmd is returned by handlers that need no follow-up command.
var HandledNoCmd = Result{Handled: true}

// Handled returns a handled result with cmd.
func Handled(cmd tea.Cmd) Result {
	return Result{Handled: true, Cmd: cmd}
}

// Handler attempts to handle a resolved key action.
type Handler func(a keymap.Action) Result

// Chain runs handlers in order until one handles a. Empty actions are never
// handled.
func Chain(a keymap.Action, handlers ...Handler) (bool, tea.Cmd) {
	if a == "" {
		return false, nil
	}
	for _, h := range handlers {
		if r := h(a); r.Handled {
			return true, r.Cmd
		}
	}
	return false, nil
}
