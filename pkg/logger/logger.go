package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logger is the leveled key/value logger handed to use cases and handlers.
type Logger interface {
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
	Debug(msg string, kv ...interface{})
}

type stdLogger struct {
	info         *log.Logger
	warn         *log.Logger
	err          *log.Logger
	debug        *log.Logger
	debugEnabled bool
}

// New builds a Logger writing info/warn/debug to out and errors to errOut.
func New(out, errOut io.Writer, debug bool) Logger {
	flags := log.Ldate | log.Ltime
	return &stdLogger{
		info:         log.New(out, "INFO: ", flags),
		warn:         log.New(out, "WARN: ", flags),
		err:          log.New(errOut, "ERROR: ", flags),
		debug:        log.New(out, "DEBUG: ", flags),
		debugEnabled: debug,
	}
}

func (l *stdLogger) Info(msg string, kv ...interface{}) {
	l.info.Println(format(msg, kv))
}

func (l *stdLogger) Warn(msg string, kv ...interface{}) {
	l.warn.Println(format(msg, kv))
}

func (l *stdLogger) Error(msg string, kv ...interface{}) {
	l.err.Println(format(msg, kv))
}

func (l *stdLogger) Debug(msg string, kv ...interface{}) {
	if l.debugEnabled {
		l.debug.Println(format(msg, kv))
	}
}

// format renders msg followed by key=value pairs. A dangling key is
// reported with a MISSING value.
func format(msg string, kv []interface{}) string {
	if len(kv) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v=MISSING", kv[i])
		}
	}
	return b.String()
}
