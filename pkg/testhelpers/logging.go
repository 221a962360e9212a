package testhelpers

import (
	"testing"

	"github.com/Shopify/goose/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

// SetupTestLogging swaps a package logger for one that records entries in the
// returned hook. Restore the logger with `defer func() { log = *oldLog }()`.
func SetupTestLogging(log *logger.Logger) (*test.Hook, *logger.Logger) {
	oldLog := *log

	nullLog, hook := test.NewNullLogger()
	nullLog.ExitFunc = func(code int) {}

	*log = func(ctx logger.Valuer, err ...error) *logrus.Entry {
		return logrus.NewEntry(nullLog)
	}
	return hook, &oldLog
}

func AssertLog(t *testing.T, hook *test.Hook, length int, level logrus.Level, msg string) {
	assert.Equal(t, length, len(hook.Entries))
	if entry := hook.LastEntry(); assert.NotNil(t, entry) {
		assert.Equal(t, level, entry.Level)
		assert.Equal(t, msg, entry.Message)
	}
	hook.Reset()
}

// AssertLogField checks a field on the last entry without resetting the hook.
func AssertLogField(t *testing.T, hook *test.Hook, key string, value interface{}) {
	if entry := hook.LastEntry(); assert.NotNil(t, entry) {
		assert.Equal(t, value, entry.Data[key])
	}
}
