// Package logsvc reports console events to stdout and Rollbar.
package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

// Identity is the signed-in operator attached to a report. user.User implements it.
type Identity interface {
	LogIdentity() (id, username, email string)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
	levelFatal
)

var levelPrefixes = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

type RollbarLogger struct {
	std   *log.Logger
	debug bool
	// reportFrom is the lowest level sent to Rollbar.
	reportFrom level
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std, debug: conf.Debug, reportFrom: levelWarn}
}

// Enable turns Rollbar reporting on or off; stdout logging is unaffected.
func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled && rollbar.Token() != "")
}

// Close flushes pending Rollbar reports.
func (l *RollbarLogger) Close() {
	rollbar.Wait()
}

// expected fmt: msg | error, map[string]interface{}, Identity
func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var identified bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		if who, ok := arg.(Identity); ok {
			if !identified { // first identity wins
				rollbar.SetPerson(who.LogIdentity())
				identified = true
			}
			continue
		}
		newArgs = append(newArgs, arg)
	}
	if !identified {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l *RollbarLogger) log(lvl level, msg string, args []interface{}) {
	if lvl == levelDebug && !l.debug {
		return
	}
	if lvl >= l.reportFrom {
		report := l.prepare(msg, args)
		switch lvl {
		case levelWarn:
			rollbar.Warning(report...)
		case levelError:
			rollbar.Error(report...)
		case levelFatal:
			rollbar.Critical(report...)
		}
	}

	l.std.Printf("[%s] %s", levelPrefixes[lvl], msg)
	for _, arg := range args {
		if who, ok := arg.(Identity); ok {
			_, username, _ := who.LogIdentity()
			l.std.Printf("  user: %s", username)
			continue
		}
		l.std.Printf("  %+v", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.log(levelDebug, msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.log(levelInfo, msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.log(levelWarn, msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.log(levelError, msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(levelFatal, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
