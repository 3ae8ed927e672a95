package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer carries output configuration through operations: where to write,
// how loud to be, and how to style. Operations never consult package-level
// state for any of this.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	theme   *Theme
	quiet   bool
	verbose bool
}

// NewPrinter creates a Printer writing to stdout/stderr.
func NewPrinter(theme *Theme, quiet, verbose bool) *Printer {
	return &Printer{
		out:     os.Stdout,
		errOut:  os.Stderr,
		theme:   theme,
		quiet:   quiet,
		verbose: verbose,
	}
}

// NewPrinterTo creates a Printer with explicit writers (for testing).
func NewPrinterTo(out, errOut io.Writer, theme *Theme, quiet, verbose bool) *Printer {
	return &Printer{out: out, errOut: errOut, theme: theme, quiet: quiet, verbose: verbose}
}

// Theme returns the printer's theme for callers that style directly.
func (p *Printer) Theme() *Theme {
	return p.theme
}

// Quiet reports whether non-essential output is suppressed.
func (p *Printer) Quiet() bool {
	return p.quiet
}

// Verbose reports whether per-item detail output is enabled.
func (p *Printer) Verbose() bool {
	return p.verbose
}

// Out returns the destination for regular output.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Success prints a success line. Suppressed in quiet mode.
func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.theme.SymSuccess(), fmt.Sprintf(format, args...))
}

// Warning prints a warning line to stderr. Warnings print even in quiet mode.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.theme.SymWarning(), fmt.Sprintf(format, args...))
}

// Error prints an error line to stderr.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.theme.SymError(), fmt.Sprintf(format, args...))
}

// Info prints an informational line. Suppressed in quiet mode.
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.theme.SymInfo(), fmt.Sprintf(format, args...))
}

// Header prints a bold section header. Suppressed in quiet mode.
func (p *Printer) Header(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", p.theme.Bold(fmt.Sprintf(format, args...)))
}

// Plain prints unstyled text. Suppressed in quiet mode.
func (p *Printer) Plain(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Dim prints muted per-item detail. Shown only in verbose mode.
func (p *Printer) Dim(format string, args ...any) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "%s\n", p.theme.Muted(fmt.Sprintf(format, args...)))
}
