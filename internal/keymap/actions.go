package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Story list actions
	ActionCursorLeft  Action = "cursor_left"
	ActionCursorRight Action = "cursor_right"
	ActionCursorFirst Action = "cursor_first"
	ActionCursorLast  Action = "cursor_last"
	ActionOpen        Action = "open"
	ActionReload      Action = "reload"

	// Viewer actions
	ActionPrevStory Action = "prev_story"
	ActionNextStory Action = "next_story"
	ActionClose     Action = "close"
)

// Binding contexts.
const (
	ContextGlobal = "global"
	ContextList   = "list"
	ContextViewer = "viewer"
)
