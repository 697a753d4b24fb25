/*
Copyright © 2025 the FarmWake authors.
This file is part of FarmWake.

FarmWake is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FarmWake is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FarmWake.  If not, see <http://www.gnu.org/licenses/>.
*/

package superpos

import (
	"math"
	"testing"

	"github.com/spatialmodel/farmwake"
)

func TestSingleContribution(t *testing.T) {
	// One contribution must combine to the same result as applying it
	// directly, for every rule.
	rules := []farmwake.Superposition{Linear{}, Quadratic{}, Max{}, Product{}}
	for _, r := range rules {
		if got := r.Deficit(8, []float64{2}); different(got, 6, 1e-12) {
			t.Errorf("%s.Deficit: got %g, want 6", r.Name(), got)
		}
	}
	for _, r := range []farmwake.Superposition{Linear{}, Max{}} {
		if got := r.Excess(0.1, []float64{0.05}); different(got, 0.15, 1e-12) {
			t.Errorf("%s.Excess: got %g, want 0.15", r.Name(), got)
		}
	}
}

func TestOrderIndependence(t *testing.T) {
	rules := []farmwake.Superposition{Linear{}, Quadratic{}, Max{}, Product{}}
	forward := []float64{0.5, 1.5, 0.25}
	reversed := []float64{0.25, 1.5, 0.5}
	for _, r := range rules {
		if r.Deficit(8, forward) != r.Deficit(8, reversed) {
			t.Errorf("%s.Deficit depends on contribution order", r.Name())
		}
		if r.Excess(0.1, forward) != r.Excess(0.1, reversed) {
			t.Errorf("%s.Excess depends on contribution order", r.Name())
		}
	}
}

func TestLinear(t *testing.T) {
	var r Linear
	if got := r.Deficit(8, []float64{1, 2}); got != 5 {
		t.Errorf("Deficit: got %g, want 5", got)
	}
	// Overlapping strong wakes clamp at zero rather than going negative.
	if got := r.Deficit(8, []float64{5, 6}); got != 0 {
		t.Errorf("clamped Deficit: got %g, want 0", got)
	}
	if got := r.Excess(0.1, []float64{0.02, 0.03}); different(got, 0.15, 1e-12) {
		t.Errorf("Excess: got %g, want 0.15", got)
	}
}

func TestQuadratic(t *testing.T) {
	var r Quadratic
	// 8 - √(3²+4²) = 3
	if got := r.Deficit(8, []float64{3, 4}); different(got, 3, 1e-12) {
		t.Errorf("Deficit: got %g, want 3", got)
	}
	if got := r.Deficit(4, []float64{3, 4}); got != 0 {
		t.Errorf("clamped Deficit: got %g, want 0", got)
	}
	// √(0.1²+0.03²+0.04²) = √0.0125
	if got := r.Excess(0.1, []float64{0.03, 0.04}); different(got, math.Sqrt(0.0125), 1e-12) {
		t.Errorf("Excess: got %g, want %g", got, math.Sqrt(0.0125))
	}
}

func TestMax(t *testing.T) {
	var r Max
	if got := r.Deficit(8, []float64{1, 3, 2}); got != 5 {
		t.Errorf("Deficit: got %g, want 5", got)
	}
	if got := r.Excess(0.1, []float64{0.02, 0.05, 0.01}); different(got, 0.15, 1e-12) {
		t.Errorf("Excess: got %g, want 0.15", got)
	}
}

func TestProduct(t *testing.T) {
	var r Product
	// 8·(1-2/8)·(1-4/8) = 3
	if got := r.Deficit(8, []float64{2, 4}); different(got, 3, 1e-12) {
		t.Errorf("Deficit: got %g, want 3", got)
	}
	// A contribution exceeding ambient floors its factor at zero.
	if got := r.Deficit(8, []float64{10, 2}); got != 0 {
		t.Errorf("floored Deficit: got %g, want 0", got)
	}
	if got := r.Deficit(0, []float64{1}); got != 0 {
		t.Errorf("zero-ambient Deficit: got %g, want 0", got)
	}
	// 0.1·(1+0.05/0.1)·(1+0.1/0.1) = 0.3
	if got := r.Excess(0.1, []float64{0.05, 0.1}); different(got, 0.3, 1e-12) {
		t.Errorf("Excess: got %g, want 0.3", got)
	}
}

func TestNoContributions(t *testing.T) {
	// An empty contribution list leaves the ambient value unchanged.
	rules := []farmwake.Superposition{Linear{}, Quadratic{}, Max{}, Product{}}
	for _, r := range rules {
		if got := r.Deficit(8, nil); got != 8 {
			t.Errorf("%s.Deficit with no contributions: got %g, want 8", r.Name(), got)
		}
		if got := r.Excess(0.1, nil); different(got, 0.1, 1e-12) {
			t.Errorf("%s.Excess with no contributions: got %g, want 0.1", r.Name(), got)
		}
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
