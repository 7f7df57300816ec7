package logsvc

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
)

var exit = os.Exit // mockable

// RollbarLogger writes every event to a std logger and reports it to rollbar when enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// NewLogger returns a stdout logger tagged with prefix, reporting to rollbar outside debug mode.
func NewLogger(prefix string, conf *core.Config) *RollbarLogger {
	logger := NewRollbarLogger(
		log.New(os.Stdout, prefix+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close waits for the pending rollbar reports.
func (l RollbarLogger) Close() {
	rollbar.Close()
}

// entry is one log event, its args sorted by kind.
// The first error and the first course.User win; maps are merged into extras.
type entry struct {
	level  string
	msg    string
	err    error
	user   *course.User
	extras map[string]interface{}
	rest   []interface{}
}

func newEntry(level, msg string, args []interface{}) entry {
	e := entry{level: level, msg: msg}
	for _, arg := range args {
		switch v := arg.(type) {
		case course.User:
			if e.user == nil {
				usr := v
				e.user = &usr
			}
		case error:
			if e.err == nil {
				e.err = v
			} else {
				e.rest = append(e.rest, v)
			}
		case map[string]interface{}:
			if e.extras == nil {
				e.extras = make(map[string]interface{}, len(v))
			}
			for k, val := range v {
				e.extras[k] = val
			}
		default:
			e.rest = append(e.rest, v)
		}
	}
	return e
}

// rollbarArgs are the values rollbar knows how to report: message, error & extras.
func (e entry) rollbarArgs() []interface{} {
	args := []interface{}{e.msg}
	if e.err != nil {
		args = append(args, e.err)
	}
	if len(e.extras) > 0 {
		args = append(args, e.extras)
	}
	return args
}

// lines renders e for the std logger; errors keep their stack trace when they carry one.
func (e entry) lines() []string {
	head := strings.ToUpper(e.level) + " " + e.msg
	if e.user != nil {
		head += fmt.Sprintf(" [user #%s]", e.user.ID)
	}
	lines := []string{head}
	if e.err != nil {
		lines = append(lines, fmt.Sprintf("%+v", e.err))
	}
	keys := make([]string, 0, len(e.extras))
	for k := range e.extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%v", k, e.extras[k]))
	}
	for _, arg := range e.rest {
		lines = append(lines, fmt.Sprintf("%+v", arg))
	}
	return lines
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	e := newEntry(level, msg, args)
	if e.user != nil {
		rollbar.SetPerson(e.user.ID.String(), e.user.Name, e.user.Email)
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, e.rollbarArgs()...)
	for _, line := range e.lines() {
		l.std.Println(line)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }

func (l RollbarLogger) Info(msg string, args ...interface{}) { l.log(rollbar.INFO, msg, args) }

func (l RollbarLogger) Warn(msg string, args ...interface{}) { l.log(rollbar.WARN, msg, args) }

func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

// Fatal reports msg, flushes rollbar and exits.
func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	exit(1)
}
