package util

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"
)

// TerminalPrinter keeps a single progress line updated in place.
// When the output is not a terminal every update is printed on its own line.
type TerminalPrinter struct {
	out    io.Writer
	writer *uilive.Writer
	live   bool
}

func NewTerminalPrinter(out io.Writer) *TerminalPrinter {
	p := &TerminalPrinter{out: out}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		p.live = true
		p.writer = uilive.New()
		p.writer.Out = out
	}
	return p
}

func (p *TerminalPrinter) IsLive() bool {
	return p.live
}

func (p *TerminalPrinter) Start() {
	if p.live {
		p.writer.Start()
	}
}

// Update replaces the progress line
func (p *TerminalPrinter) Update(format string, args ...interface{}) {
	if p.live {
		fmt.Fprintf(p.writer, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Bypass writes text that stays on screen above the progress line
func (p *TerminalPrinter) Bypass() io.Writer {
	if p.live {
		return p.writer.Bypass()
	}
	return p.out
}

func (p *TerminalPrinter) Stop() {
	if p.live {
		p.writer.Stop()
	}
}
