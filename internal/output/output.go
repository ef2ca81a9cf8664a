// Package output provides terminal output helpers for the relog CLI.
// Status messages go to stderr so the generated document can stream to
// stdout unobstructed.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Capabilities describes what the attached terminal supports.
type Capabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// DetectCapabilities detects terminal features for the given file.
// Checks: isatty, NO_COLOR env, RELOG_ASCII env, terminal width.
func DetectCapabilities(f *os.File) Capabilities {
	isTTY := term.IsTerminal(int(f.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("RELOG_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}

	return Capabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// Symbols holds the status markers for the current terminal.
// Unicode: ✓/✗ with braille spinner (set 14). ASCII: [OK]/[FAIL] with
// |/-\ spinner (set 9). Graceful degradation keeps output readable in
// any terminal.
type Symbols struct {
	Success    string
	Failure    string
	SpinnerSet int
}

// SelectSymbols returns the appropriate symbol set for the capabilities.
func SelectSymbols(caps Capabilities) Symbols {
	if caps.SupportsUnicode {
		return Symbols{
			Success:    "✓",
			Failure:    "✗",
			SpinnerSet: 14,
		}
	}
	return Symbols{
		Success:    "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9,
	}
}

// Printer writes status messages, honoring the quiet flag.
type Printer struct {
	out     io.Writer
	quiet   bool
	caps    Capabilities
	symbols Symbols
}

// NewPrinter creates a Printer writing to stderr with detected capabilities.
func NewPrinter(quiet bool) *Printer {
	return NewPrinterTo(os.Stderr, quiet, DetectCapabilities(os.Stderr))
}

// NewPrinterTo creates a Printer with explicit destination and capabilities.
func NewPrinterTo(out io.Writer, quiet bool, caps Capabilities) *Printer {
	return &Printer{
		out:     out,
		quiet:   quiet,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Successf prints a success marker followed by the formatted message.
func (p *Printer) Successf(format string, args ...any) {
	if p.quiet {
		return
	}
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(p.out, "%s %s\n", green(p.symbols.Success), fmt.Sprintf(format, args...))
}

// Infof prints a plain formatted message.
func (p *Printer) Infof(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s\n", fmt.Sprintf(format, args...))
}

// Warnf prints a yellow warning message.
func (p *Printer) Warnf(format string, args ...any) {
	if p.quiet {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(p.out, "%s %s\n", yellow("warning:"), fmt.Sprintf(format, args...))
}

// Progress is a running spinner. Stop is safe on the zero value.
type Progress struct {
	spinner *spinner.Spinner
}

// StartProgress shows a spinner with the given message. It is a no-op when
// quiet is set or the terminal cannot display one.
func (p *Printer) StartProgress(message string) *Progress {
	if p.quiet || !p.caps.IsTTY {
		return &Progress{}
	}

	s := spinner.New(spinner.CharSets[p.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(p.out))
	s.Suffix = " " + message
	s.Start()
	return &Progress{spinner: s}
}

// Stop halts the spinner and clears its line.
func (pr *Progress) Stop() {
	if pr.spinner != nil {
		pr.spinner.Stop()
	}
}
