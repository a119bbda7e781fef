package logger

import "log"

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

var tags = map[int]string{
	DEBUG:   "DEBUG",
	INFO:    "INFO",
	WARNING: "WARN",
	ERROR:   "ERROR",
}

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

// levelLogger drops every record below its threshold. SILENCE keeps the
// test output clean.
type levelLogger struct {
	level int
}

func NewLogger(level int) *levelLogger {
	return &levelLogger{level: level}
}

func (l *levelLogger) logf(level int, msg string, a ...any) {
	if level < l.level {
		return
	}

	log.Printf("["+tags[level]+"] "+msg+"\n", a...)
}

func (l *levelLogger) Debugf(msg string, a ...any) { l.logf(DEBUG, msg, a...) }
func (l *levelLogger) Infof(msg string, a ...any)  { l.logf(INFO, msg, a...) }
func (l *levelLogger) Warnf(msg string, a ...any)  { l.logf(WARNING, msg, a...) }
func (l *levelLogger) Errorf(msg string, a ...any) { l.logf(ERROR, msg, a...) }
