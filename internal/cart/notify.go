package cart

import "github.com/rs/zerolog"

// Level classifies user-facing notifications.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier receives user-facing messages from cart operations. The UI layer
// supplies its own implementation (toast, banner, ...).
type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier writes notifications to the log. It is the default when no
// Notifier is provided.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(level Level, message string) {
	switch level {
	case LevelWarning:
		n.Logger.Warn().Msg(message)
	case LevelError:
		n.Logger.Error().Msg(message)
	default:
		n.Logger.Info().Msg(message)
	}
}
