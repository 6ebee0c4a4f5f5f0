// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

const (
	OpCatalogLoad  Op = "load stories"
	OpMediaLoad    Op = "load story image"
	OpImageDisplay Op = "display story image"
	OpViewerOpen   Op = "open stories"
	OpConfigLoad   Op = "load configuration"
	OpInitialize   Op = "initialize application"
)

// Title returns the short failure text for op, without details.
func Title(op Op) string {
	return fmt.Sprintf("Failed to %s", op)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", Title(op), err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("%s '%s': %v", Title(op), context, err)
}
