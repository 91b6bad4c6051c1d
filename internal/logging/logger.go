// Package logging configures the process-wide logrus logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SystemName identifies this program in log records.
const SystemName = "taskboard"

// Logger is the global logger. It discards everything until Init is called.
var Logger = newDiscardLogger()

var once sync.Once

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(&CustomFormatter{SystemName: SystemName})
	return l
}

// CustomFormatter writes one line per record:
// date, time, event source, event type, event id, message and sorted fields.
type CustomFormatter struct {
	SystemName string
}

// Format implements logrus.Formatter.
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	t := entry.Time
	fmt.Fprintf(b, "Date: %s, Time: %s, ", t.Format("2006-01-02"), t.Format("15:04:05"))
	fmt.Fprintf(b, "Event Source: %s, ", f.SystemName)
	fmt.Fprintf(b, "Event Type: %s, ", strings.ToUpper(entry.Level.String()))
	fmt.Fprintf(b, "Event ID: %s, ", uuid.New().String())
	fmt.Fprintf(b, "Message: %s", entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, ", %s=%v", k, entry.Data[k])
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// Options controls Init.
type Options struct {
	// Path is the log file; empty disables the file sink.
	Path string

	// Debug lowers the level to debug and mirrors output to Stderr.
	Debug bool

	// Stderr receives debug output. Defaults to os.Stderr.
	Stderr io.Writer
}

// Init configures the global logger once per process.
func Init(opts Options) {
	once.Do(func() {
		configure(Logger, opts)
		Logger.WithField("log_file", opts.Path).Debug("logger initialized")
	})
}

func configure(l *logrus.Logger, opts Options) {
	var writers []io.Writer
	if opts.Path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	l.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		l.SetLevel(logrus.DebugLevel)
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}
	l.SetFormatter(&CustomFormatter{SystemName: SystemName})
}
