package utils

import (
	"context"
	"runtime/debug"

	"ipo-hype-tracker/pkg/logger"
)

// GoSafe runs fn in a new goroutine and logs any recovered panic.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil && log != nil {
				log.Error("Recovered from panic",
					logger.Field("panic", r),
					logger.StringField("stack", string(debug.Stack())),
				)
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	if err := ctx.Err(); err != nil {
		if log != nil {
			log.WarnContext(ctx, "Context done, stopping work", logger.ErrorField(err))
		}
		return false
	}
	return true
}

// ToPointer returns a pointer to v.
func ToPointer[T any](v T) *T {
	return &v
}
