// Package logging configures the diagnostic log for reps.
//
// reps is an interactive terminal program, so logs never go to stdout.
// They are written to a size-rotated file in the XDG state directory.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	// FileName is the log file path. Empty discards all output.
	FileName string
	Level    string
}

// Logger is a logrus logger that owns its output file.
type Logger struct {
	*logrus.Logger
	closer io.Closer
}

// Close releases the underlying log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Setup builds a logger from params. The returned logger must be closed.
func Setup(params Params) (*Logger, error) {
	log := logrus.New()
	log.SetLevel(GetLevel(params.Level))
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	if params.FileName == "" {
		log.SetOutput(io.Discard)
		return &Logger{Logger: log}, nil
	}

	if !strings.HasSuffix(params.FileName, ".log") {
		params.FileName += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(params.FileName), 0o755); err != nil {
		return nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   params.FileName,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		LocalTime:  true,
		Compress:   true,
	}
	log.SetOutput(lj)
	return &Logger{Logger: log, closer: lj}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	l, _ := Setup(Params{})
	return l
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
