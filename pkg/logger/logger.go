package logger

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

var (
	debugTag = color.New(color.FgHiBlack).Sprint("DEBUG")
	infoTag  = color.New(color.FgHiCyan).Sprint("INFO ")
	warnTag  = color.New(color.FgHiYellow).Sprint("WARN ")
	errorTag = color.New(color.FgHiRed).Sprint("ERROR")
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level  int
	logger *log.Logger
}

func NewLogger(level int) *defaultLogger {
	return NewLoggerTo(os.Stderr, level)
}

func NewLoggerTo(w io.Writer, level int) *defaultLogger {
	return &defaultLogger{level: level, logger: log.New(w, "", log.LstdFlags)}
}

// ParseLevel converts the textual level of configuration into a level
// constant. Unknown values fall back to INFO.
func ParseLevel(s string) int {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence", "silent":
		return SILENCE
	default:
		return INFO
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		l.logger.Printf(debugTag+" "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		l.logger.Printf(infoTag+" "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		l.logger.Printf(warnTag+" "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		l.logger.Printf(errorTag+" "+msg+"\n", a...)
	}
}
