// Package eventlog appends timestamped lifecycle lines to a text file.
//
// Each line has the form
//
//	[2006-01-02 15:04:05] message
//
// The destination is opened, appended to and closed on every call; no handle is held between
// events. Lines are rendered by a zerolog console writer and a Logger is safe for concurrent use.
package eventlog

import (
	"fmt"
	"os"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// TimestampLayout is the local-time layout written inside the brackets.
const TimestampLayout = "2006-01-02 15:04:05"

// Logger writes event lines to a file.
type Logger struct {
	clock clockwork.Clock
	sink  *appendSink

	mu sync.Mutex
	zl zerolog.Logger
}

// New creates a Logger appending to path.
func New(path string, clock clockwork.Clock) *Logger {
	sink := &appendSink{path: path}
	cw := zerolog.ConsoleWriter{
		Out:        sink,
		NoColor:    true,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.MessageFieldName},
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("[%v]", i)
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
	return &Logger{
		clock: clock,
		sink:  sink,
		zl:    zerolog.New(cw),
	}
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.sink.path
}

// Log appends one line. A failure to open or write the file is returned.
func (l *Logger) Log(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sink.err = nil
	l.zl.Log().
		Str(zerolog.TimestampFieldName, l.clock.Now().Local().Format(TimestampLayout)).
		Msg(message)
	if l.sink.err != nil {
		return fmt.Errorf("failed to append event log: %w", l.sink.err)
	}
	return nil
}

// appendSink opens the file for every write. Callers serialize access.
type appendSink struct {
	path string
	err  error
}

func (s *appendSink) Write(p []byte) (int, error) {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.err = err
		return 0, err
	}
	n, err := f.Write(p)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	s.err = err
	return n, err
}
