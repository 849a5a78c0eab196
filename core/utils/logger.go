package utils

import (
	"io"
	"log"
	"os"
)

type Logger struct {
	out *log.Logger
	err *log.Logger
}

func NewLogger() *Logger {
	return &Logger{
		out: log.New(os.Stdout, "", log.LstdFlags|log.LUTC),
		err: log.New(os.Stderr, "ERROR ", log.LstdFlags|log.LUTC),
	}
}

func NewLoggerWithWriters(out, err io.Writer) *Logger {
	return &Logger{
		out: log.New(out, "", log.LstdFlags|log.LUTC),
		err: log.New(err, "ERROR ", log.LstdFlags|log.LUTC),
	}
}

func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	l.out.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil || l.err == nil {
		return
	}
	l.err.Printf(format, args...)
}
