// Package commands parses the text commands shared by the command palette and
// the CLI and dispatches them to handlers.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/duetasks/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeToggle Type = "toggle"
	TypeDelete Type = "delete"
	TypeFilter Type = "filter"
	TypeNotify Type = "notify"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const duePrefix = "due:"

type AddArgs struct {
	Text string
	Due  *model.Date
}

type TargetArgs struct {
	ID int64
}

type FilterArgs struct {
	Mode model.FilterMode
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Filter *FilterArgs
}

// Parse reads one command line. today anchors the relative due values
// "today" and "tomorrow".
func Parse(input string, today model.Date) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch head {
	case string(TypeAdd):
		return parseAdd(input, args, today)
	case string(TypeToggle), "done":
		return parseTarget(input, TypeToggle, args)
	case string(TypeDelete), "rm":
		return parseTarget(input, TypeDelete, args)
	case string(TypeFilter):
		return parseFilter(input, args)
	case string(TypeNotify):
		return Command{Type: TypeNotify, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string, today model.Date) (Command, error) {
	var due *model.Date
	words := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), duePrefix) {
			d, err := ParseDue(arg[len(duePrefix):], today)
			if err != nil {
				return Command{}, err
			}
			due = d
			continue
		}
		words = append(words, arg)
	}
	text := strings.TrimSpace(strings.Join(words, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text, Due: due}}, nil
}

// ParseDue accepts YYYY-MM-DD, "today" or "tomorrow". Empty input means no
// due date.
func ParseDue(raw string, today model.Date) (*model.Date, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return nil, nil
	case "today":
		return &today, nil
	case "tomorrow":
		d := today.AddDays(1)
		return &d, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid due date %q (want YYYY-MM-DD, today or tomorrow)", raw)}
	}
	return &d, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", typ)}
	}
	id, err := ParseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{ID: id}}, nil
}

func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task id %q", raw)}
	}
	return id, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires one of all, active, completed"}
	}
	mode, err := model.ParseFilterMode(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown filter %q", args[0])}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Mode: mode}}, nil
}
