// Package events appends tunnel lifecycle records to a JSON lines journal.
package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/treykane/ssh-tunnel/internal/appconfig"
	"github.com/treykane/ssh-tunnel/internal/model"
)

const (
	TypeStartSucceeded = "start_succeeded"
	TypeStartFailed    = "start_failed"
	TypeExited         = "exited"
	TypeStopped        = "stopped"
)

// Event is one tunnel lifecycle record persisted to events.jsonl.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	TunnelID  string            `json:"tunnel_id,omitempty"`
	Host      string            `json:"host,omitempty"`
	EventType string            `json:"event_type"`
	State     model.TunnelState `json:"state,omitempty"`
	Message   string            `json:"message,omitempty"`
	PID       int               `json:"pid,omitempty"`
}

// Query controls event filtering and bounded reads.
type Query struct {
	Host      string
	EventType string
	Since     time.Time
	Limit     int
}

// Store provides append/read access to one journal file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns events.jsonl inside the config directory.
func DefaultPath() (string, error) {
	dir, err := appconfig.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "events.jsonl"), nil
}

// Path returns the journal file path.
func (s *Store) Path() string { return s.path }

// Append writes a single event as one JSON line.
func (s *Store) Append(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// Read returns events in append order, filtered by q. With a Limit only the
// newest Limit matches are kept.
func (s *Store) Read(q Query) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var evt Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			continue
		}
		if !matches(evt, q) {
			continue
		}
		out = append(out, evt)
		if q.Limit > 0 && len(out) > q.Limit {
			out = out[len(out)-q.Limit:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return out, nil
}

func matches(evt Event, q Query) bool {
	if strings.TrimSpace(q.Host) != "" && evt.Host != q.Host {
		return false
	}
	if strings.TrimSpace(q.EventType) != "" && evt.EventType != q.EventType {
		return false
	}
	if !q.Since.IsZero() && evt.Timestamp.Before(q.Since) {
		return false
	}
	return true
}
