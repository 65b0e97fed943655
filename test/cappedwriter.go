// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package test

import "fmt"

// CappedWriter accumulates bytes up to a fixed limit, silently discarding
// anything written beyond it. Useful for bounding test output from a runaway
// emulation loop.
type CappedWriter struct {
	buf   []byte
	limit int
}

// NewCappedWriter returns a CappedWriter that accepts at most limit bytes.
func NewCappedWriter(limit int) (*CappedWriter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("capped writer: limit must be greater than zero")
	}
	return &CappedWriter{limit: limit}, nil
}

// Write implements io.Writer, discarding anything beyond the configured
// limit. It never returns an error: excess bytes are reported as written.
func (c *CappedWriter) Write(p []byte) (int, error) {
	room := c.limit - len(c.buf)
	if room > 0 {
		n := room
		if n > len(p) {
			n = len(p)
		}
		c.buf = append(c.buf, p[:n]...)
	}
	return len(p), nil
}

// String returns everything accumulated so far.
func (c *CappedWriter) String() string {
	return string(c.buf)
}

// Reset empties the writer.
func (c *CappedWriter) Reset() {
	c.buf = c.buf[:0]
}
