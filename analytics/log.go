package analytics

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Adnanskuyy/ShoppingABTest/internal/paths"
)

// ErrLogClosed indicates an append to a closed event log.
var ErrLogClosed = errors.New("event log is closed")

// EventLogOptions configures run event logs.
type EventLogOptions struct {
	EventsDir string
}

// EventLog writes run events to a JSONL log.
type EventLog struct {
	path    string
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// OpenEventLog creates the event log for a run.
func OpenEventLog(runID string, opts EventLogOptions) (*EventLog, error) {
	path, err := eventLogPath(runID, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create events dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create event log: %w", err)
	}
	return &EventLog{path: path, file: file, encoder: json.NewEncoder(file)}, nil
}

// Path returns the log file location.
func (log *EventLog) Path() string {
	if log == nil {
		return ""
	}
	return log.path
}

// Append writes a new event to the log.
func (log *EventLog) Append(event Event) error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.encoder == nil {
		return ErrLogClosed
	}
	return log.encoder.Encode(event)
}

// Send implements Sink.
func (log *EventLog) Send(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return log.Append(event)
}

// Close flushes and closes the event log.
func (log *EventLog) Close() error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.file == nil {
		return nil
	}
	err := log.file.Close()
	log.file = nil
	log.encoder = nil
	return err
}

func eventLogPath(runID string, opts EventLogOptions) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}
	root, err := paths.ResolveWithDefault(opts.EventsDir, paths.DefaultEventsDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, runID+".jsonl"), nil
}

// EventLogPath returns the path to a run's event log.
func EventLogPath(runID string, opts EventLogOptions) (string, error) {
	return eventLogPath(runID, opts)
}

// ReadEvents reads events from a JSONL reader.
func ReadEvents(reader io.Reader) ([]Event, error) {
	events := make([]Event, 0)
	if reader == nil {
		return events, nil
	}
	buffer := bufio.NewReader(reader)
	for {
		line, err := buffer.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			var event Event
			if unmarshalErr := json.Unmarshal([]byte(line), &event); unmarshalErr != nil {
				return nil, fmt.Errorf("decode event: %w", unmarshalErr)
			}
			events = append(events, event)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return events, nil
}

// EventSnapshot returns the stored events of a run.
func EventSnapshot(runID string, opts EventLogOptions) ([]Event, error) {
	path, err := eventLogPath(runID, opts)
	if err != nil {
		return nil, err
	}
	return ReadEventFile(path)
}

// ReadEventFile reads a JSONL log. A missing file has no events.
func ReadEventFile(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadEvents(file)
}
