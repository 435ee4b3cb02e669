package tunnel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/treykane/ssh-tunnel/internal/failure"
	"github.com/treykane/ssh-tunnel/internal/model"
)

func TestParseRequest(t *testing.T) {
	got, err := ParseRequest("example.com", "alice", "8080")
	if err != nil {
		t.Fatal(err)
	}
	want := model.TunnelRequest{Host: "example.com", User: "alice", Port: 8080}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRequestRejects(t *testing.T) {
	for _, tc := range []struct {
		name, host, user, port string
	}{
		{name: "port zero", host: "h", user: "u", port: "0"},
		{name: "port too large", host: "h", user: "u", port: "99999"},
		{name: "negative port", host: "h", user: "u", port: "-5"},
		{name: "non-numeric port", host: "h", user: "u", port: "ssh"},
		{name: "empty host", host: "", user: "u", port: "22"},
		{name: "option host", host: "-oProxyCommand=x", user: "u", port: "22"},
		{name: "option user", host: "h", user: "-F/tmp/cfg", port: "22"},
		{name: "space in user", host: "h", user: "a b", port: "22"},
		{name: "newline in host", host: "h\nx", user: "u", port: "22"},
		{name: "at in user", host: "h", user: "a@b", port: "22"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRequest(tc.host, tc.user, tc.port)
			if !failure.Is(err, failure.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseRequestRangeMessage(t *testing.T) {
	_, err := ParseRequest("example.com", "alice", "99999")
	if got := failure.UserMessage(err, false); got != "Port must be between 1 and 65535." {
		t.Fatalf("unexpected message: %q", got)
	}
}
