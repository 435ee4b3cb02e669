package tunnel

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/treykane/ssh-tunnel/internal/failure"
	"github.com/treykane/ssh-tunnel/internal/model"
	"github.com/treykane/ssh-tunnel/internal/util"
)

// ParseRequest validates the host, user and port arguments.
func ParseRequest(host, user, portText string) (model.TunnelRequest, error) {
	port, err := util.ParsePort(portText)
	if err != nil {
		return model.TunnelRequest{}, failure.Wrap(failure.KindValidation,
			fmt.Sprintf("Port must be between %d and %d.", util.MinPort, util.MaxPort), err)
	}
	if err := validateWord("remote host", host); err != nil {
		return model.TunnelRequest{}, err
	}
	if err := validateWord("remote username", user); err != nil {
		return model.TunnelRequest{}, err
	}
	if strings.Contains(user, "@") {
		return model.TunnelRequest{}, failure.New(failure.KindValidation, "remote username cannot contain '@'")
	}
	return model.TunnelRequest{Host: host, User: user, Port: port}, nil
}

// validateWord rejects values ssh would read as something other than a
// destination component.
func validateWord(what, v string) error {
	if v == "" {
		return failure.New(failure.KindValidation, what+" cannot be empty")
	}
	if strings.HasPrefix(v, "-") {
		return failure.New(failure.KindValidation, what+" cannot start with '-'")
	}
	if strings.IndexFunc(v, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return failure.New(failure.KindValidation, what+" cannot contain spaces or control characters")
	}
	return nil
}
