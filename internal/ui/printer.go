// Package ui renders the tunnel command's status lines.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/treykane/ssh-tunnel/internal/model"
)

// Printer writes styled one-line messages. Colors are only emitted when the
// writer is a terminal and color is enabled.
type Printer struct {
	out   io.Writer
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		out:   w,
		ok:    r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("214")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// Established reports that the ssh process was launched.
func (p *Printer) Established(req model.TunnelRequest) {
	fmt.Fprintf(p.out, "%s localhost:%d -> %s:%d. %s\n",
		p.ok.Render("Tunnel established:"),
		req.Port, req.Host, req.Port,
		p.muted.Render("Press Ctrl+C to stop."))
}

// Stopping reports that an interrupt was received.
func (p *Printer) Stopping() {
	fmt.Fprintf(p.out, "\n%s\n", p.warn.Render("Stopping tunnel..."))
}

// Failure writes an error line.
func (p *Printer) Failure(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", p.fail.Render("Error:"), msg)
}

// Plain writes msg unstyled, e.g. usage text.
func (p *Printer) Plain(msg string) {
	fmt.Fprint(p.out, msg)
}
