// Package failure classifies the terminal errors of the tunnel command and
// renders them for the user.
package failure

import (
	"errors"
	"os"
	"strings"
)

// Kind identifies which step of the tunnel setup failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindUsage
	KindValidation
	KindProbe
	KindPortConflict
	KindLaunch
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindValidation:
		return "validation"
	case KindProbe:
		return "probe"
	case KindPortConflict:
		return "port-conflict"
	case KindLaunch:
		return "launch"
	default:
		return "unknown"
	}
}

// Error separates a user-safe message from the wrapped cause.
type Error struct {
	Kind     Kind
	UserSafe string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.UserSafe)
	if msg == "" {
		msg = "operation failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error without an underlying cause.
func New(kind Kind, userSafe string) error {
	return &Error{Kind: kind, UserSafe: userSafe}
}

// Wrap classifies err. A nil err yields a plain classified error.
func Wrap(kind Kind, userSafe string, err error) error {
	return &Error{Kind: kind, UserSafe: userSafe, Err: err}
}

// KindOf reports the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns a message safe to show on the terminal. Probe and
// launch failures keep the system error text since it is the actionable part.
func UserMessage(err error, redact bool) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var fe *Error
	if errors.As(err, &fe) {
		switch fe.Kind {
		case KindProbe, KindLaunch:
			msg = fe.Error()
		default:
			msg = fe.UserSafe
			if strings.TrimSpace(msg) == "" {
				msg = "operation failed"
			}
		}
	}
	if redact {
		return RedactMessage(msg)
	}
	return msg
}

// DebugMessage returns the full error chain for logs.
func DebugMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// RedactMessage strips common sensitive path prefixes from user-visible text.
func RedactMessage(msg string) string {
	if msg == "" {
		return msg
	}
	out := msg
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		out = strings.ReplaceAll(out, home, "~")
	}
	if strings.Contains(out, "/.ssh/") {
		out = strings.ReplaceAll(out, "/.ssh/", "/.ssh/[redacted]/")
	}
	return out
}
