package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is one run log record. Append-only; never mutated after creation.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Details   any
}

// Logger records every step of an import run to an in-memory list, to the
// console, and optionally to an append-only run file. Error entries always
// reach the console; info and warn only in verbose mode. The logger's
// lifetime spans the whole run and it is passed by reference into each
// upsert call.
type Logger struct {
	mu       sync.Mutex
	entries  []Entry
	file     *os.File
	writeErr error
	console  zerolog.Logger
}

// New builds the run logger. The log file is truncated once here at run
// start and only appended to afterwards. An empty path disables file
// logging.
func New(logFilePath string, verbose bool) (*Logger, error) {
	consoleLevel := zerolog.ErrorLevel
	if verbose {
		consoleLevel = zerolog.InfoLevel
	}

	console := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(consoleLevel).With().Timestamp().Logger()

	logger := &Logger{console: console}

	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
		}
		logger.file = file

		header := fmt.Sprintf("Import run started at %s\n\n", time.Now().Format("Mon, 02 Jan 2006 15:04:05 MST"))
		if _, err := file.WriteString(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write log header: %w", err)
		}
	}

	return logger, nil
}

func (l *Logger) Info(message string, details ...any) {
	l.append(LevelInfo, message, firstDetail(details))
}

func (l *Logger) Warn(message string, details ...any) {
	l.append(LevelWarn, message, firstDetail(details))
}

func (l *Logger) Error(message string, details ...any) {
	l.append(LevelError, message, firstDetail(details))
}

func firstDetail(details []any) any {
	if len(details) == 0 {
		return nil
	}
	return details[0]
}

func (l *Logger) append(level Level, message string, details any) {
	entry := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Details:   details,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.writeToFile(entry)
	l.mu.Unlock()

	event := l.console.Info()
	switch level {
	case LevelWarn:
		event = l.console.Warn()
	case LevelError:
		event = l.console.Error()
	}
	if details != nil {
		event = event.Interface("details", details)
	}
	event.Msg(message)
}

// writeToFile appends one entry to the run file. A failed write must not
// abort the run mid-import, so the first error is held and surfaced from
// Close instead. Caller holds l.mu.
func (l *Logger) writeToFile(entry Entry) {
	if l.file == nil {
		return
	}

	line := fmt.Sprintf("[%s] %-6s %s\n", entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message)
	if _, err := l.file.WriteString(line); err != nil && l.writeErr == nil {
		l.writeErr = err
	}

	if entry.Details != nil {
		if encoded, err := json.MarshalIndent(entry.Details, "  ", "  "); err == nil {
			if _, err := l.file.WriteString("  Details: " + string(encoded) + "\n"); err != nil && l.writeErr == nil {
				l.writeErr = err
			}
		}
	}
}

// Counts returns the number of error entries, warning entries and total
// entries recorded so far.
func (l *Logger) Counts() (errors, warnings, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		switch entry.Level {
		case LevelError:
			errors++
		case LevelWarn:
			warnings++
		}
	}
	return errors, warnings, len(l.entries)
}

// Entries returns a copy of the recorded entries.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Close writes the closing summary block to the log file and prints it to
// the console regardless of verbosity, then releases the file.
func (l *Logger) Close() error {
	errors, warnings, total := l.Counts()

	summary := fmt.Sprintf("Run complete: %d errors, %d warnings, %d log entries", errors, warnings, total)

	// Summary always prints, even when info output is filtered
	fmt.Fprintln(os.Stderr, summary)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	block := fmt.Sprintf("\n%s\n%s\n", strings.Repeat("-", 40), summary)
	if _, err := l.file.WriteString(block); err != nil && l.writeErr == nil {
		l.writeErr = err
	}

	closeErr := l.file.Close()
	l.file = nil

	if l.writeErr != nil {
		return fmt.Errorf("failed to write log file: %w", l.writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close log file: %w", closeErr)
	}

	return nil
}
