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

// RingWriter keeps only the most recently written limit bytes, unlike
// CappedWriter which keeps the earliest. Useful for a tail-of-log style
// comparison.
type RingWriter struct {
	buf   []byte
	limit int
}

// NewRingWriter returns a RingWriter that retains at most limit bytes.
func NewRingWriter(limit int) (*RingWriter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("ring writer: limit must be greater than zero")
	}
	return &RingWriter{limit: limit}, nil
}

// Write implements io.Writer, keeping only the trailing limit bytes of
// everything ever written.
func (r *RingWriter) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	if len(r.buf) > r.limit {
		r.buf = r.buf[len(r.buf)-r.limit:]
	}
	return len(p), nil
}

// String returns the retained tail.
func (r *RingWriter) String() string {
	return string(r.buf)
}

// Reset empties the writer.
func (r *RingWriter) Reset() {
	r.buf = r.buf[:0]
}
