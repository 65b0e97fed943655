package armcore

import (
	"github.com/jetsetilly/twincore/psr"
	"github.com/jetsetilly/twincore/schedule"
)

// State is everything a Core needs to resume identically: the register
// banks, the local clock, and the handful of mutable flags CP15 can change
// at runtime (spec.md §6's savestate layout,
// "regs(); set_regs(prev); regs() must round-trip").
type State struct {
	Banks psr.Snapshot

	LocalTime schedule.Timestamp
	Halted    bool

	HighVectors     bool
	TbitLoadDisable bool
	Cp15            cp15Regs

	Pipeline      [2]uint32
	PipelineValid bool
}

// Snapshot captures this core's full architectural state.
func (c *Core) Snapshot() State {
	return State{
		Banks:           c.Banks.Snapshot(),
		LocalTime:       c.localTime,
		Halted:          c.halted,
		HighVectors:     c.highVectors,
		TbitLoadDisable: c.tbitLoadDisable,
		Cp15:            c.cp15,
		Pipeline:        c.pipeline,
		PipelineValid:   c.pipelineValid,
	}
}

// Restore is the inverse of Snapshot. Once the region table itself is
// restored, every region is replayed through recomputeRegion so the CP15
// permission bitmap (which lives outside this struct, in the cp15.PermMap
// passed as Config.Cp15) matches the restored registers exactly.
func (c *Core) Restore(s State) {
	c.Banks.Restore(s.Banks)
	c.localTime = s.LocalTime
	c.halted = s.Halted
	c.highVectors = s.HighVectors
	c.tbitLoadDisable = s.TbitLoadDisable
	c.cp15 = s.Cp15
	c.pipeline = s.Pipeline
	c.pipelineValid = s.PipelineValid

	if c.cfg.Cp15 != nil {
		for i := range c.cp15.regions {
			c.recomputeRegion(c.cfg.Cp15, i)
		}
	}
}
