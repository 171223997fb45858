// Package hostlog provides leveled logging for the module host.
//
// Modeled on the logging package used throughout the reference backend
// this project's supervisor idiom is drawn from: level-gated writers,
// a short prefix per level, no timestamp by default (a process
// supervisor such as systemd already adds one).
package hostlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

var logDateTime bool

var (
	DebugWriter io.Writer = os.Stderr
	InfoWriter  io.Writer = os.Stderr
	WarnWriter  io.Writer = os.Stderr
	ErrWriter   io.Writer = os.Stderr
)

var (
	DebugPrefix string = "<7>[DEBUG] "
	InfoPrefix  string = "<6>[INFO]  "
	WarnPrefix  string = "<4>[WARN]  "
	ErrPrefix   string = "<3>[ERROR] "
)

var (
	debugLog *log.Logger = log.New(DebugWriter, DebugPrefix, 0)
	infoLog  *log.Logger = log.New(InfoWriter, InfoPrefix, 0)
	warnLog  *log.Logger = log.New(WarnWriter, WarnPrefix, log.Lshortfile)
	errLog   *log.Logger = log.New(ErrWriter, ErrPrefix, log.Llongfile)

	debugTimeLog *log.Logger = log.New(DebugWriter, DebugPrefix, log.LstdFlags)
	infoTimeLog  *log.Logger = log.New(InfoWriter, InfoPrefix, log.LstdFlags)
	warnTimeLog  *log.Logger = log.New(WarnWriter, WarnPrefix, log.LstdFlags|log.Lshortfile)
	errTimeLog   *log.Logger = log.New(ErrWriter, ErrPrefix, log.LstdFlags|log.Llongfile)
)

// SetLevel discards writers below lvl. Known values: "debug", "info", "warn", "err".
func SetLevel(lvl string) {
	switch lvl {
	case "err", "fatal":
		WarnWriter = io.Discard
		fallthrough
	case "warn":
		InfoWriter = io.Discard
		fallthrough
	case "info":
		DebugWriter = io.Discard
	case "debug":
		// nothing discarded
	default:
		fmt.Printf("hostlog: unknown level %q, defaulting to 'info'\n", lvl)
		SetLevel("info")
	}
}

func SetLogDateTime(v bool) {
	logDateTime = v
}

func Debug(v ...interface{}) {
	if DebugWriter != io.Discard {
		out(debugLog, debugTimeLog, fmt.Sprint(v...))
	}
}

func Info(v ...interface{}) {
	if InfoWriter != io.Discard {
		out(infoLog, infoTimeLog, fmt.Sprint(v...))
	}
}

func Warn(v ...interface{}) {
	if WarnWriter != io.Discard {
		out(warnLog, warnTimeLog, fmt.Sprint(v...))
	}
}

func Error(v ...interface{}) {
	if ErrWriter != io.Discard {
		out(errLog, errTimeLog, fmt.Sprint(v...))
	}
}

// Fatal logs at error level and terminates the process. Reserved for the
// host-fatal error tier (missing MODULES_PATH, unreadable directory, ...).
func Fatal(v ...interface{}) {
	Error(v...)
	os.Exit(1)
}

func Debugf(format string, v ...interface{}) {
	if DebugWriter != io.Discard {
		out(debugLog, debugTimeLog, fmt.Sprintf(format, v...))
	}
}

func Infof(format string, v ...interface{}) {
	if InfoWriter != io.Discard {
		out(infoLog, infoTimeLog, fmt.Sprintf(format, v...))
	}
}

func Warnf(format string, v ...interface{}) {
	if WarnWriter != io.Discard {
		out(warnLog, warnTimeLog, fmt.Sprintf(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if ErrWriter != io.Discard {
		out(errLog, errTimeLog, fmt.Sprintf(format, v...))
	}
}

func Fatalf(format string, v ...interface{}) {
	Errorf(format, v...)
	os.Exit(1)
}

func out(plain, withTime *log.Logger, s string) {
	if logDateTime {
		withTime.Output(3, s)
	} else {
		plain.Output(3, s)
	}
}
