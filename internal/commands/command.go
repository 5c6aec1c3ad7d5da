package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/sunrise/internal/storage"
	"github.com/sandeepkv93/sunrise/internal/timer"
	"github.com/sandeepkv93/sunrise/internal/visual"
)

type Type string

const (
	TypeStart    Type = "start"
	TypePause    Type = "pause"
	TypeReset    Type = "reset"
	TypeDuration Type = "duration"
	TypePreset   Type = "preset"
	TypeMute     Type = "mute"
	TypeVisual   Type = "visual"
	TypeStats    Type = "stats"
	TypeHistory  Type = "history"
)

const (
	DefaultHistoryLimit = 5
	MaxHistoryLimit     = 20
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

type DurationArgs struct {
	Minutes int
}

type PresetArgs struct {
	Seconds int
}

type MuteMode string

const (
	MuteToggle MuteMode = "toggle"
	MuteOn     MuteMode = "on"
	MuteOff    MuteMode = "off"
)

type MuteArgs struct {
	Mode MuteMode
}

// VisualArgs with an empty Mode cycles to the next mode.
type VisualArgs struct {
	Mode visual.Mode
}

// HistoryArgs selects the newest Limit sessions of today, optionally of one
// kind only.
type HistoryArgs struct {
	Limit int
	Kind  storage.SessionKind
}

type Command struct {
	Type     Type
	Raw      string
	Duration *DurationArgs
	Preset   *PresetArgs
	Mute     *MuteArgs
	Visual   *VisualArgs
	History  *HistoryArgs
}

// Names lists the palette commands in display order.
func Names() []string {
	return []string{
		"/start",
		"/pause",
		"/reset",
		"/duration <minutes>",
		"/preset <25|45|60>",
		"/mute [on|off]",
		"/visual [blended|discrete]",
		"/stats",
		"/history [count] [completed|abandoned]",
	}
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeStart, TypePause, TypeReset, TypeStats:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	case TypeDuration:
		return parseDuration(input, args)
	case TypePreset:
		return parsePreset(input, args)
	case TypeMute:
		return parseMute(input, args)
	case TypeVisual:
		return parseVisual(input, args)
	case TypeHistory:
		return parseHistory(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseDuration(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "duration requires minutes"}
	}
	minutes, err := timer.ParseMinutes(strings.TrimSuffix(strings.ToLower(args[0]), "m"))
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeDuration, Raw: raw, Duration: &DurationArgs{Minutes: minutes}}, nil
}

// parsePreset accepts minutes (25) or seconds (1500).
func parsePreset(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "preset requires 25, 45 or 60"}
	}
	v, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(args[0]), "m"))
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("preset %q is not a number", args[0])}
	}
	seconds := v
	if !timer.IsPreset(seconds) {
		seconds = v * 60
	}
	if !timer.IsPreset(seconds) {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown preset %s", args[0])}
	}
	return Command{Type: TypePreset, Raw: raw, Preset: &PresetArgs{Seconds: seconds}}, nil
}

func parseMute(raw string, args []string) (Command, error) {
	mode := MuteToggle
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mute takes at most one argument"}
	}
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on", "true":
			mode = MuteOn
		case "off", "false":
			mode = MuteOff
		default:
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("mute expects on or off, got %q", args[0])}
		}
	}
	return Command{Type: TypeMute, Raw: raw, Mute: &MuteArgs{Mode: mode}}, nil
}

func parseVisual(raw string, args []string) (Command, error) {
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "visual takes at most one argument"}
	}
	out := VisualArgs{}
	if len(args) == 1 {
		mode, err := visual.ParseMode(args[0])
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
		}
		out.Mode = mode
	}
	return Command{Type: TypeVisual, Raw: raw, Visual: &out}, nil
}

func parseHistory(raw string, args []string) (Command, error) {
	if len(args) > 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "history takes a count and a kind at most"}
	}
	out := HistoryArgs{Limit: DefaultHistoryLimit}
	seenLimit := false
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if seenLimit || n < 1 || n > MaxHistoryLimit {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("history count must be 1-%d", MaxHistoryLimit)}
			}
			out.Limit = n
			seenLimit = true
			continue
		}
		kind := storage.SessionKind(strings.ToLower(arg))
		if !kind.Valid() || out.Kind != "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("history expects completed or abandoned, got %q", arg)}
		}
		out.Kind = kind
	}
	return Command{Type: TypeHistory, Raw: raw, History: &out}, nil
}
