//go:build devtools

package console

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// StatsServer wraps a statsview viewer serving the library's built-in
// goroutine/heap charts. It keeps a reference to the Core but reports no
// batch-loop figures (cycles advanced, events drained). Grounded on the
// teacher's own `statsview.Available()`/`statsview.Launch()` wrapper
// (SPEC_FULL.md's Domain Stack section); gated behind `devtools` the same
// way the teacher gates its own profiling UI behind build tags.
type StatsServer struct {
	viewer *viewer.Viewer
	core   *Core
}

// NewStatsServer starts a statsview HTTP endpoint at addr (empty string uses
// the library default, ":18066").
func NewStatsServer(core *Core, addr string) *StatsServer {
	var opts []viewer.Option
	if addr != "" {
		opts = append(opts, viewer.WithAddr(addr))
	}
	v := statsview.New(opts...)
	s := &StatsServer{viewer: v, core: core}
	go v.Start()
	return s
}

// Stop shuts the stats server down.
func (s *StatsServer) Stop() {
	s.viewer.Stop()
}
