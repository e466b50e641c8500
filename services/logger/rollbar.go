package logsvc

import (
	"fmt"
	"io"
	"os"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/rs/zerolog"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
)

// RollbarLogger reports to Rollbar and prints to a zerolog console logger.
type RollbarLogger struct {
	console zerolog.Logger
	exit    func(code int)
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(out io.Writer, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}
	console := zerolog.New(zerolog.ConsoleWriter{Out: out}).
		Level(level).
		With().Timestamp().Str("app", conf.AppName).Logger()
	return &RollbarLogger{console: console, exit: os.Exit}
}

// Enable turns Rollbar reporting on or off; it stays off without a token.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled && rollbar.Token() != "")
}

// With returns a logger tagging its console lines with component.
func (l RollbarLogger) With(component string) *RollbarLogger {
	l.console = l.console.With().Str("component", component).Logger()
	return &l
}

// Close waits for pending Rollbar reports.
func (l RollbarLogger) Close() {
	rollbar.Wait()
}

// expected fmt: msg | error, map[string]interface{}, account.Account
func (l RollbarLogger) prepare(msg string, args []interface{}) (rbArgs []interface{}, acc *account.Account) {
	rbArgs = make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	for _, arg := range args {
		// set logged in Account; only the first one counts
		if a, ok := arg.(account.Account); ok {
			if acc == nil {
				acc = &a
			}
			continue
		}
		rbArgs = append(rbArgs, arg)
	}
	if acc != nil {
		rollbar.SetPerson(acc.ID, acc.Username, acc.Email)
	} else {
		rollbar.ClearPerson()
	}
	return rbArgs, acc
}

func (l RollbarLogger) print(evt *zerolog.Event, msg string, args []interface{}, acc *account.Account) {
	if acc != nil {
		evt = evt.Str("account", acc.Username)
	}
	for i, arg := range args {
		switch v := arg.(type) {
		case account.Account:
		case error:
			evt = evt.Str("error", fmt.Sprintf("%+v", v))
		case map[string]interface{}:
			evt = evt.Fields(v)
		default:
			evt = evt.Interface(fmt.Sprintf("arg%d", i), v)
		}
	}
	evt.Msg(msg)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, acc := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.print(l.console.Debug(), msg, args, acc)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, acc := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.print(l.console.Info(), msg, args, acc)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, acc := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.print(l.console.Warn(), msg, args, acc)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, acc := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.print(l.console.Error(), msg, args, acc)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, acc := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	rollbar.Wait()
	l.print(l.console.WithLevel(zerolog.FatalLevel), msg, args, acc)
	l.exit(1)
}
