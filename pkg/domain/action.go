package domain

import (
	"fmt"
	"strings"
)

// Command is the closed vocabulary shared by the keymap and the dispatcher.
type Command int

const (
	CommandNone Command = iota
	CommandUp
	CommandDown
	CommandLeft
	CommandRight
	CommandPageUp
	CommandPageDown
	CommandFirstColumn
	CommandLastColumn
	CommandFirstCell
	CommandLastCell
	CommandPrevCell
	CommandNextCell
	CommandCurrentCell
	CommandAll
)

var commandNames = [...]string{
	CommandNone:        "",
	CommandUp:          "up",
	CommandDown:        "down",
	CommandLeft:        "left",
	CommandRight:       "right",
	CommandPageUp:      "pageUp",
	CommandPageDown:    "pageDown",
	CommandFirstColumn: "firstColumn",
	CommandLastColumn:  "lastColumn",
	CommandFirstCell:   "firstCell",
	CommandLastCell:    "lastCell",
	CommandPrevCell:    "prevCell",
	CommandNextCell:    "nextCell",
	CommandCurrentCell: "currentCell",
	CommandAll:         "all",
}

// String returns the wire name of the command.
func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseCommand resolves a wire name (case-insensitive) to a Command.
func ParseCommand(s string) (Command, error) {
	for i, name := range commandNames {
		if strings.EqualFold(name, s) {
			return Command(i), nil
		}
	}
	return CommandNone, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Command) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Command) UnmarshalText(b []byte) error {
	parsed, err := ParseCommand(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ActionType selects which dispatcher operation handles a Command.
type ActionType string

const (
	ActionMove   ActionType = "move"
	ActionEdit   ActionType = "edit"
	ActionSelect ActionType = "select"
	ActionRemove ActionType = "remove"
)

// ParseActionType validates an action type name.
func ParseActionType(s string) (ActionType, error) {
	switch t := ActionType(strings.ToLower(s)); t {
	case ActionMove, ActionEdit, ActionSelect, ActionRemove:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActionType, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ActionType) UnmarshalText(b []byte) error {
	parsed, err := ParseActionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Action is a resolved key stroke.
type Action struct {
	Type    ActionType `json:"type" yaml:"type" mapstructure:"type"`
	Command Command    `json:"command,omitempty" yaml:"command" mapstructure:"command"`
}

// String renders the action as "type:command".
func (a Action) String() string {
	if a.Command == CommandNone {
		return string(a.Type)
	}
	return string(a.Type) + ":" + a.Command.String()
}
