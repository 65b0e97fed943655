package armcore

import (
	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/psr"
)

// privileged reports whether the current mode is anything other than User,
// the privilege split CP15's permission checks key on (spec.md §4.5).
func (c *Core) privileged() bool {
	return c.Banks.Mode() != psr.User
}

// checkData runs the CP15 read/write permission check for a data access.
// Cores without a CP15 (the ARM7) always pass; debug accesses never fault
// (spec.md §4.3: "debug accesses never trigger watchpoints... or timing
// accounting", extended here to permission checks for the same reason).
func (c *Core) checkData(addr uint32, write bool, at bus.AccessType) bool {
	if c.cfg.Cp15 == nil || at.IsDebug() {
		return true
	}
	priv := c.privileged()
	if write {
		return c.cfg.Cp15.Write(addr, priv)
	}
	return c.cfg.Cp15.Read(addr, priv)
}

// checkExecute runs the CP15 execute permission check for an instruction
// fetch.
func (c *Core) checkExecute(addr uint32, at bus.AccessType) bool {
	if c.cfg.Cp15 == nil || at.IsDebug() {
		return true
	}
	return c.cfg.Cp15.Execute(addr, c.privileged())
}

// read8/16/32 and write8/16/32 are what every instruction handler uses
// instead of calling c.Bus directly: a denied CP15 permission check
// dispatches the data abort exception instead of touching the bus (spec.md
// §4.5/§7). On the ARM7, which has no CP15, these are a direct pass-through.

func (c *Core) read8(addr uint32, at bus.AccessType) uint8 {
	if !c.checkData(addr, false, at) {
		c.RaiseDataAbort()
		return 0
	}
	return c.Bus.Read8(addr, at)
}

func (c *Core) read16(addr uint32, at bus.AccessType) uint16 {
	if !c.checkData(addr, false, at) {
		c.RaiseDataAbort()
		return 0
	}
	return c.Bus.Read16(addr, at)
}

func (c *Core) read32(addr uint32, at bus.AccessType) uint32 {
	if !c.checkData(addr, false, at) {
		c.RaiseDataAbort()
		return 0
	}
	return c.Bus.Read32(addr, at)
}

func (c *Core) write8(addr uint32, v uint8, at bus.AccessType) {
	if !c.checkData(addr, true, at) {
		c.RaiseDataAbort()
		return
	}
	c.Bus.Write8(addr, v, at)
}

func (c *Core) write16(addr uint32, v uint16, at bus.AccessType) {
	if !c.checkData(addr, true, at) {
		c.RaiseDataAbort()
		return
	}
	c.Bus.Write16(addr, v, at)
}

func (c *Core) write32(addr uint32, v uint32, at bus.AccessType) {
	if !c.checkData(addr, true, at) {
		c.RaiseDataAbort()
		return
	}
	c.Bus.Write32(addr, v, at)
}

// fetch16/32 are the instruction-fetch equivalents, checked against the
// execute permission and dispatching a prefetch abort rather than a data
// abort on denial.
func (c *Core) fetch16(addr uint32, at bus.AccessType) uint16 {
	if !c.checkExecute(addr, at) {
		c.RaisePrefetchAbort()
		return 0
	}
	return c.Bus.Read16(addr, at)
}

func (c *Core) fetch32(addr uint32, at bus.AccessType) uint32 {
	if !c.checkExecute(addr, at) {
		c.RaisePrefetchAbort()
		return 0
	}
	return c.Bus.Read32(addr, at)
}
