package main

import (
	"fmt"
	"io"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
)

// progressPrinter renders worker-pool progress as a single updating line.
// The pipeline delivers events from one goroutine, so no locking is needed.
type progressPrinter struct {
	w       io.Writer
	quiet   bool
	phase   types.Phase
	dirty   bool
	lastPct int
}

func newProgressPrinter(w io.Writer, quiet bool) *progressPrinter {
	return &progressPrinter{w: w, quiet: quiet, lastPct: -1}
}

// update handles one progress event. Redraws are throttled to whole-percent
// steps so large trees don't flood the terminal.
func (p *progressPrinter) update(ev types.Progress) {
	if p.quiet || ev.Total == 0 {
		return
	}

	if ev.Phase != p.phase {
		p.endLine()
		p.phase = ev.Phase
		p.lastPct = -1
	}

	pct := ev.Completed * 100 / ev.Total
	if pct == p.lastPct && ev.Completed != ev.Total {
		return
	}
	p.lastPct = pct

	fmt.Fprintf(p.w, "\r%s: %d/%d (%d%%)", p.phase, ev.Completed, ev.Total, pct)
	p.dirty = true
}

// done finishes any in-progress line.
func (p *progressPrinter) done() {
	p.endLine()
}

func (p *progressPrinter) endLine() {
	if p.dirty {
		fmt.Fprintln(p.w)
		p.dirty = false
	}
}
