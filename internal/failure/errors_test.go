package failure

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
)

func TestKindOfThroughWrapping(t *testing.T) {
	base := New(KindPortConflict, "Port 8080 is already bound. Exiting.")
	wrapped := fmt.Errorf("run: %w", base)
	if got := KindOf(wrapped); got != KindPortConflict {
		t.Fatalf("expected port-conflict, got %s", got)
	}
	if !Is(wrapped, KindPortConflict) {
		t.Fatal("Is should match through fmt.Errorf wrapping")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("plain error should be unknown")
	}
	if Is(nil, KindUnknown) {
		t.Fatal("nil error must not match any kind")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(KindLaunch, "failed to start ssh", exec.ErrNotFound)
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatal("expected cause to be reachable with errors.Is")
	}
	if !strings.Contains(UserMessage(err, false), "executable file not found") {
		t.Fatalf("launch message should carry the cause: %q", UserMessage(err, false))
	}
}

func TestUserMessageHidesCauseForValidation(t *testing.T) {
	err := Wrap(KindValidation, "Port must be between 1 and 65535.", errors.New(`strconv.Atoi: parsing "x"`))
	if got := UserMessage(err, false); got != "Port must be between 1 and 65535." {
		t.Fatalf("unexpected user message: %q", got)
	}
	if !strings.Contains(DebugMessage(err), "strconv.Atoi") {
		t.Fatalf("debug message should keep the cause: %q", DebugMessage(err))
	}
}

func TestRedactMessage(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	msg := home + "/.ssh/id_ed25519 permission denied"
	got := RedactMessage(msg)
	if got == msg {
		t.Fatalf("expected message to be redacted")
	}
	if strings.Contains(got, home) {
		t.Fatalf("home dir leaked: %q", got)
	}
}
