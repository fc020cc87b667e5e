package services

import "context"

// Level is the severity of a user-facing notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notifier shows short notices to the user.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, level Level, message string)

func (f NotifierFunc) Notify(ctx context.Context, level Level, message string) { f(ctx, level, message) }
