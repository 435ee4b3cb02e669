// Package cli provides the command-line interface for the tunnel binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/treykane/ssh-tunnel/internal/appconfig"
	"github.com/treykane/ssh-tunnel/internal/events"
	"github.com/treykane/ssh-tunnel/internal/failure"
	"github.com/treykane/ssh-tunnel/internal/probe"
	"github.com/treykane/ssh-tunnel/internal/sshclient"
	"github.com/treykane/ssh-tunnel/internal/tunnel"
	"github.com/treykane/ssh-tunnel/internal/ui"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

const usageTemplate = `Usage: {{.UseLine}}
  remotehost: The remote host to connect to (e.g., example.com)
  remoteusername: The username for the remote host
  port: The port to forward (1-65535)
`

type starterFunc func(cfg appconfig.Config) (tunnel.TunnelStarter, error)

type app struct {
	cfg        appconfig.Config
	newStarter starterFunc
	out        io.Writer
	errOut     io.Writer
}

func newApp(newStarter starterFunc, out, errOut io.Writer) *app {
	cfg, err := appconfig.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = appconfig.Default()
	}
	setupLogging(cfg, errOut)
	return &app{cfg: cfg, newStarter: newStarter, out: out, errOut: errOut}
}

// Execute runs the tunnel command with the process arguments and returns the
// exit code.
func Execute() int {
	a := newApp(defaultStarter, os.Stdout, os.Stderr)
	return a.execute(context.Background(), os.Args[1:])
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "tunnel <remotehost> <remoteusername> <port>",
		Short: "Forward a local port to the same port on a remote host over ssh",
		Long: "tunnel forwards localhost:<port> to <port> on <remotehost> by running\n" +
			"`ssh -N -L <port>:localhost:<port> <remoteusername>@<remotehost>`\n" +
			"and keeps it open until interrupted with Ctrl+C.",
		Version:               version,
		Args:                  exactArgs(3),
		DisableFlagsInUseLine: true,
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args[0], args[1], args[2])
		},
	}
	// Everything after the first positional argument is an argument, so a
	// port like "-1" reaches the port validator instead of the flag parser.
	root.Flags().SetInterspersed(false)
	root.SetUsageTemplate(usageTemplate)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return failure.Wrap(failure.KindUsage, err.Error(), err)
	})
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return failure.New(failure.KindUsage, fmt.Sprintf("expected %d arguments, got %d", n, len(args)))
		}
		return nil
	}
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.command()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	slog.Debug("tunnel failed", "kind", failure.KindOf(err), "error", failure.DebugMessage(err))
	p := ui.NewPrinter(a.errOut, a.cfg.UI.Color)
	p.Failure(failure.UserMessage(err, a.cfg.Security.RedactErrors))
	if failure.Is(err, failure.KindUsage) {
		p.Plain(cmd.UsageString())
	}
	return 1
}

func (a *app) run(ctx context.Context, host, user, portText string) error {
	req, err := tunnel.ParseRequest(host, user, portText)
	if err != nil {
		return err
	}

	status, err := probe.Check(a.cfg.BindAddress, req.Port)
	switch status {
	case probe.Available:
	case probe.InUse:
		return failure.New(failure.KindPortConflict, fmt.Sprintf("Port %d is already bound. Exiting.", req.Port))
	default:
		return failure.Wrap(failure.KindProbe, fmt.Sprintf("cannot check port %d", req.Port), err)
	}

	starter, err := a.newStarter(a.cfg)
	if err != nil {
		return failure.Wrap(failure.KindLaunch, "cannot launch ssh", err)
	}

	// Registered before launch; the supervisor sees the cancellation even if
	// it arrives while the process is still starting.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := tunnel.Options{
		StopTimeout: a.cfg.StopTimeout(),
		Reporter:    ui.NewPrinter(a.out, a.cfg.UI.Color),
	}
	if a.cfg.Journal.Enabled {
		path, err := events.DefaultPath()
		if err != nil {
			slog.Warn("event journal disabled", "error", err)
		} else {
			opts.Journal = events.NewStore(path)
		}
	}
	return tunnel.NewSupervisor(starter, opts).Run(ctx, req)
}

func defaultStarter(cfg appconfig.Config) (tunnel.TunnelStarter, error) {
	argv, err := cfg.SSHArgv()
	if err != nil {
		return nil, err
	}
	c := sshclient.New(sshclient.Options{Argv: argv, BindAddress: cfg.BindAddress})
	if err := c.EnsureBinary(); err != nil {
		return nil, err
	}
	return c, nil
}

func setupLogging(cfg appconfig.Config, w io.Writer) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var h slog.Handler
	if cfg.Log.Format == appconfig.LogFormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}
