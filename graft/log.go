package graft

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level uint8

const (
	DebugLevel Level = iota
	InfoLevel
	WarningLevel
	ErrorLevel
	CriticalLevel
	SilentLevel // suppresses every message
)

var levelNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "SILENT"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", l)
}

// ParseLevel returns the level named by s, ignoring case.  An empty string is InfoLevel.
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return InfoLevel, nil
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Logger receives the formatted messages that pass the current level.
type Logger interface {
	Log(level Level, msg string)
	Close() error
}

var (
	logMu  sync.RWMutex
	level  = InfoLevel
	logger Logger = stdLogger{}
)

func SetLevel(l Level) {
	logMu.Lock()
	level = l
	logMu.Unlock()
}

func CurrentLevel() Level {
	logMu.RLock()
	defer logMu.RUnlock()
	return level
}

// Enabled returns true if messages at l are currently written.
func Enabled(l Level) bool {
	return l >= CurrentLevel() && l < SilentLevel
}

// SetLogger replaces the package logger.  Nil restores the standard log output.
func SetLogger(l Logger) {
	if l == nil {
		l = stdLogger{}
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func logf(l Level, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	logMu.RLock()
	lg := logger
	logMu.RUnlock()
	lg.Log(l, fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{})    { logf(DebugLevel, format, args...) }
func Infof(format string, args ...interface{})     { logf(InfoLevel, format, args...) }
func Warningf(format string, args ...interface{})  { logf(WarningLevel, format, args...) }
func Errorf(format string, args ...interface{})    { logf(ErrorLevel, format, args...) }
func Criticalf(format string, args ...interface{}) { logf(CriticalLevel, format, args...) }

// Shutdown closes the current log file, if any, and returns to standard output.
func Shutdown() {
	logMu.Lock()
	lg := logger
	logger = stdLogger{}
	logMu.Unlock()
	if err := lg.Close(); err != nil {
		Errorf("closing log: %v\n", err)
	}
}

// TimeLog appends the time elapsed since NewTimeLog to its messages.
type TimeLog struct {
	start time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{time.Now()}
}

func (t TimeLog) logf(l Level, format string, args ...interface{}) {
	if Enabled(l) {
		logf(l, format+": %s\n", append(args, time.Since(t.start))...)
	}
}

func (t TimeLog) Debugf(format string, args ...interface{}) { t.logf(DebugLevel, format, args...) }
func (t TimeLog) Infof(format string, args ...interface{})  { t.logf(InfoLevel, format, args...) }
