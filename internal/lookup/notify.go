package lookup

import (
	"context"
	"errors"
	"fmt"

	"geneinfo/internal/upstream"
)

// Notification is the user-facing form of a lookup failure.
type Notification struct {
	Title   string
	Message string
}

// Notify turns a lookup error into the message shown to the user. symbol is
// the normalized query.
func Notify(symbol string, err error) Notification {
	switch {
	case errors.Is(err, ErrBusy):
		return Notification{Title: "Busy", Message: "A lookup is already in progress"}
	case errors.Is(err, ErrEmptyQuery):
		return Notification{Title: "Error", Message: "Enter a gene name"}
	case errors.Is(err, upstream.ErrNotFound):
		return Notification{Title: "Error", Message: "No human gene found with name: " + symbol}
	case errors.Is(err, context.Canceled):
		return Notification{Title: "Canceled", Message: "Lookup canceled"}
	case errors.Is(err, upstream.ErrNetwork):
		return Notification{Title: "Network Error", Message: fmt.Sprintf("Could not connect to services: %v", err)}
	default:
		return Notification{Title: "Error", Message: fmt.Sprintf("An error occurred: %v", err)}
	}
}
