// Package decisionlog provides the append-only audit trail of toolgate
// decisions. A Logger is an explicitly constructed component with its own
// lifecycle (open, log, close) rather than a hidden module-level singleton,
// so tests build isolated instances.
//
// Each gate type writes to its own file. Entries are JSON lines; every
// append happens under a mutex as a single write to an O_APPEND descriptor
// so concurrent invocations never interleave records. Files grow for the
// process lifetime; rotation is external (see Compact).
package decisionlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwynn/toolgate/internal/constants"
	"github.com/mwynn/toolgate/internal/logger"
	"github.com/mwynn/toolgate/internal/verdict"
)

// TimestampFormat is the format used for decision log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// Entry is a single decision record (v1 format).
type Entry struct {
	ID         string              `json:"id"`
	Version    int                 `json:"version"`
	Timestamp  string              `json:"timestamp"`
	Gate       string              `json:"gate"`
	SessionID  string              `json:"session_id,omitempty"`
	ToolUseID  string              `json:"tool_use_id,omitempty"`
	ToolName   string              `json:"tool_name,omitempty"`
	Resource   string              `json:"resource,omitempty"`
	Command    string              `json:"command,omitempty"`
	Decision   string              `json:"decision"`
	Reason     string              `json:"reason"`
	Violations []verdict.Violation `json:"violations,omitempty"`
	DurationMs float64             `json:"duration_ms"`
	Cwd        string              `json:"cwd,omitempty"`
}

// Version of the entry format.
const Version = 1

// Logger appends decision entries to one gate's log file.
type Logger struct {
	mu      sync.Mutex
	f       *os.File
	enabled bool
}

// DefaultPath returns the default log path for a gate
// (~/.local/share/toolgate/<gate>.log).
func DefaultPath(gate string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", constants.AppName, gate+".log"), nil
}

// New opens (creating if necessary) the decision log at path. If path is
// empty, the default path for the gate is used.
func New(gate, path string) (*Logger, error) {
	if path == "" {
		var err error
		path, err = DefaultPath(gate)
		if err != nil {
			return nil, fmt.Errorf("default decision log path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		return nil, fmt.Errorf("create decision log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return nil, fmt.Errorf("open decision log: %w", err)
	}

	logger.Debug("decision logging initialized", "gate", gate, "path", path)
	return &Logger{f: f, enabled: true}, nil
}

// Disabled returns a Logger that drops every entry. Used for --no-decision-log.
func Disabled() *Logger {
	return &Logger{}
}

// Log appends one entry. The entry's ID and timestamp are assigned here.
// Logging failures are reported but must never affect the decision itself.
func (l *Logger) Log(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || l.f == nil {
		return nil
	}

	e.ID = uuid.NewString()
	e.Version = Version
	e.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(e)
	if err != nil {
		logger.Debug("failed to marshal decision entry", "error", err)
		return err
	}

	// Single write of the whole line keeps concurrent appends atomic.
	if _, err := l.f.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write decision entry", "error", err)
		return err
	}

	return nil
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f != nil {
		err := l.f.Close()
		l.f = nil
		l.enabled = false
		return err
	}
	return nil
}

// IsEnabled reports whether entries are being persisted.
func (l *Logger) IsEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}
