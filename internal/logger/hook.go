package logger

import "github.com/sirupsen/logrus"

// NotifyHook forwards warnings and errors to a channel so an interactive
// view can show them. Sends never block; entries are dropped when the
// buffer is full.
type NotifyHook struct {
	C chan string
}

// NewNotifyHook creates a hook with the given buffer size.
func NewNotifyHook(size int) *NotifyHook {
	if size < 1 {
		size = 1
	}
	return &NotifyHook{C: make(chan string, size)}
}

// Levels implements logrus.Hook.
func (h *NotifyHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

// Fire implements logrus.Hook.
func (h *NotifyHook) Fire(entry *logrus.Entry) error {
	select {
	case h.C <- entry.Message:
	default:
	}
	return nil
}

// Install attaches a hook to the shared logger.
func Install(hook logrus.Hook) {
	root().AddHook(hook)
}
