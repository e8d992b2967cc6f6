package tools

import "errors"

var (
	// ErrUnknownTool is returned by the router for a tool name no group owns.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrUnknownOperation is returned by a group handler for an operation it does not
	// own. The handler returns a nil result and makes no engine call.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidArguments is returned when an argument mapping cannot be bound to the
	// operation's request: unknown keys, wrong types, or missing required fields.
	ErrInvalidArguments = errors.New("invalid arguments")
)
