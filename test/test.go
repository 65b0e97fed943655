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

// Package test collects the small assertion and buffer helpers used by every
// package's test files, in place of an external assertion library.
package test

import (
	"fmt"
	"math"
	"testing"
)

// Equate fails the test unless a and b print the same with fmt.Sprint, and
// also returns whether they were equal (e.g. comparing the result of a
// Compare() call against the expected outcome).
func Equate(t *testing.T, a, b any) bool {
	t.Helper()
	eq := fmt.Sprint(a) == fmt.Sprint(b)
	if !eq {
		t.Errorf("not equal: %v != %v", a, b)
	}
	return eq
}

// ExpectEquality fails the test unless got == want.
func ExpectEquality[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, wanted %v", got, want)
	}
}

// ExpectInequality fails the test if got == unwanted.
func ExpectInequality[T comparable](t *testing.T, got, unwanted T) {
	t.Helper()
	if got == unwanted {
		t.Errorf("got %v, wanted anything else", got)
	}
}

// ExpectApproximate fails the test unless got is within tolerance of want,
// where tolerance is a fraction of want (0.1 allows a 10% difference).
func ExpectApproximate(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	margin := math.Abs(want * tolerance)
	if math.Abs(got-want) > margin {
		t.Errorf("got %v, wanted %v (+/- %v)", got, want, margin)
	}
}

// ExpectSuccess fails the test if v is a non-nil error or false.
func ExpectSuccess(t *testing.T, v any) {
	t.Helper()
	switch x := v.(type) {
	case nil:
		return
	case error:
		t.Errorf("unexpected failure: %v", x)
	case bool:
		if !x {
			t.Errorf("unexpected failure")
		}
	}
}

// ExpectFailure fails the test unless v is a non-nil error or false.
func ExpectFailure(t *testing.T, v any) {
	t.Helper()
	switch x := v.(type) {
	case nil:
		t.Errorf("expected failure, got success")
	case error:
		return
	case bool:
		if x {
			t.Errorf("expected failure, got success")
		}
	}
}
