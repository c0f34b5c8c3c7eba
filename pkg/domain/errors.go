package domain

import "errors"

// ErrUnknownCommand is returned when a string does not name a Command.
var ErrUnknownCommand = errors.New("unknown command")

// ErrUnknownActionType is returned when a string does not name an ActionType.
var ErrUnknownActionType = errors.New("unknown action type")

// ErrUnknownEditor is returned when a column references an unregistered editor.
var ErrUnknownEditor = errors.New("unknown editor")

// ErrUnknownColumn is returned when a column name is not part of the column model.
var ErrUnknownColumn = errors.New("unknown column")

// ErrDuplicateColumn is returned when two columns share a name.
var ErrDuplicateColumn = errors.New("duplicate column")

// ErrRowNotFound is returned when a row key does not resolve to a row.
var ErrRowNotFound = errors.New("row not found")

// ErrUnknownKey is returned when a key stroke has no binding.
var ErrUnknownKey = errors.New("unknown key stroke")

// ErrDuplicateRowKey is returned when an explicit row key is already in use.
var ErrDuplicateRowKey = errors.New("duplicate row key")
