package events

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreAppendReadAndFilters(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "events.jsonl"))

	base := time.Now().Add(-2 * time.Hour).UTC()
	seed := []Event{
		{Timestamp: base, TunnelID: "a", Host: "api", EventType: TypeStartSucceeded},
		{Timestamp: base.Add(10 * time.Minute), TunnelID: "a", Host: "api", EventType: TypeStopped},
		{Timestamp: base.Add(20 * time.Minute), TunnelID: "b", Host: "db", EventType: TypeStartFailed},
	}
	for _, evt := range seed {
		if err := s.Append(evt); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.Read(Query{})
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	hostOnly, err := s.Read(Query{Host: "api"})
	if err != nil {
		t.Fatalf("read host: %v", err)
	}
	if len(hostOnly) != 2 {
		t.Fatalf("expected 2 api events, got %d", len(hostOnly))
	}

	limited, err := s.Read(Query{Limit: 1})
	if err != nil {
		t.Fatalf("read limit: %v", err)
	}
	if len(limited) != 1 || limited[0].TunnelID != "b" {
		t.Fatalf("unexpected limited result: %+v", limited)
	}

	since, err := s.Read(Query{Since: base.Add(15 * time.Minute)})
	if err != nil {
		t.Fatalf("read since: %v", err)
	}
	if len(since) != 1 || since[0].TunnelID != "b" {
		t.Fatalf("unexpected since result: %+v", since)
	}

	st, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("journal should be owner-only, got %#o", st.Mode().Perm())
	}
}

func TestStoreReadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "events.jsonl"))
	got, err := s.Read(Query{})
	if err != nil || got != nil {
		t.Fatalf("expected empty read, got %v err=%v", got, err)
	}
}

func TestDefaultPathUsesConfigDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, "ssh-tunnel", "events.jsonl"); p != want {
		t.Fatalf("path = %s, want %s", p, want)
	}
}
