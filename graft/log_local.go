package graft

import (
	"fmt"
	"log"
	"os"

	"github.com/natefinch/lumberjack"
)

// stdLogger writes through the standard log package.  A non-nil file is a
// rotating log file that log output has been redirected to.
type stdLogger struct {
	file *lumberjack.Logger
}

func (s stdLogger) Log(l Level, msg string) {
	log.Printf(" %s %s", l, msg)
}

func (s stdLogger) Close() error {
	if s.file == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	return s.file.Close()
}

// LogConfig is the [logging] table of the graft TOML configuration.
type LogConfig struct {
	Logfile string
	MaxSize int `toml:"max_log_size"` // megabytes
	MaxAge  int `toml:"max_log_age"`  // days
	Level   string
}

// Apply sets the configured level and, when a logfile is named, sends log
// output to it with size- and age-based rotation.
func (c *LogConfig) Apply() error {
	if c == nil {
		return nil
	}
	l, err := ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("[logging] %w", err)
	}
	SetLevel(l)
	if c.Logfile == "" {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Sending log messages to: %s\n", c.Logfile)
	file := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	log.SetOutput(file)
	SetLogger(stdLogger{file})
	return nil
}
