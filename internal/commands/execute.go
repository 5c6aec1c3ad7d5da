package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Start    func() (Result, error)
	Pause    func() (Result, error)
	Reset    func() (Result, error)
	Duration func(DurationArgs) (Result, error)
	Preset   func(PresetArgs) (Result, error)
	Mute     func(MuteArgs) (Result, error)
	Visual   func(VisualArgs) (Result, error)
	Stats    func() (Result, error)
	History  func(HistoryArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeStart:
		return call(handlers.Start, cmd.Type)
	case TypePause:
		return call(handlers.Pause, cmd.Type)
	case TypeReset:
		return call(handlers.Reset, cmd.Type)
	case TypeStats:
		return call(handlers.Stats, cmd.Type)
	case TypeDuration:
		if handlers.Duration == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Duration(*cmd.Duration)
	case TypePreset:
		if handlers.Preset == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Preset(*cmd.Preset)
	case TypeMute:
		if handlers.Mute == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Mute(*cmd.Mute)
	case TypeVisual:
		if handlers.Visual == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Visual(*cmd.Visual)
	case TypeHistory:
		if handlers.History == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.History(*cmd.History)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func call(fn func() (Result, error), t Type) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	return fn()
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
