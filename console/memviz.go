//go:build devtools

package console

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// DumpDecodeTables writes a Graphviz .dot rendering of this Core's wired-up
// state — the register banks, scheduler slots, and coprocessor registers —
// to w, for visually inspecting the object graph during development.
// Grounded on the teacher's own use of memviz for exactly this purpose
// (struct-graph visualisation of its own emulation state); gated behind the
// `devtools` build tag so the dependency never reaches a production build
// (SPEC_FULL.md's Domain Stack section).
func (c *Core) DumpDecodeTables(w io.Writer) {
	memviz.Map(w, c)
}
