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

package farmwake

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
)

func TestFlowField(t *testing.T) {
	m := testModel()
	fw := runRow(t, 3, SingleCondition(270, 8, 0.1), m)

	pts := []FlowPoint{
		{Point: geom.Point{X: -500}, Height: 100}, // upstream of the farm
		{Point: geom.Point{X: 500}, Height: 100},  // at turbine 1
		{Point: geom.Point{X: 1500}, Height: 100}, // behind the whole row
	}
	field, err := fw.FlowField(m, pts)
	if err != nil {
		t.Fatal(err)
	}
	if field.NStates() != 1 || field.NColumns() != 3 {
		t.Fatalf("field dims: got (%d, %d), want (1, 3)", field.NStates(), field.NColumns())
	}

	if got := field.Get(WS, 0, 0); got != 8 {
		t.Errorf("upstream point: got %g m/s, want ambient 8", got)
	}
	// The point at turbine 1 sees exactly the wake environment turbine
	// 1 was evaluated in.
	if got, want := field.Get(WS, 0, 1), fw.Grid().Get(WS, 0, 1); different(got, want, 1e-12) {
		t.Errorf("point at turbine 1: got %g, want %g", got, want)
	}
	// Behind the row, all three wakes overlap:
	// 8 - 0.1·(8 + 7.2 + 6.48).
	if got := field.Get(WS, 0, 2); different(got, 8-0.1*(8+7.2+6.48), 1e-12) {
		t.Errorf("point behind the row: got %g, want %g", got, 8-0.1*(8+7.2+6.48))
	}
}

func TestFlowFieldTurbulence(t *testing.T) {
	m := testModel()
	m.Turbulence = testTurbulence{add: 0.05}
	fw := runRow(t, 2, SingleCondition(270, 8, 0.1), m)

	field, err := fw.FlowField(m, []FlowPoint{
		{Point: geom.Point{X: -500}, Height: 100},
		{Point: geom.Point{X: 1000}, Height: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := field.Get(TI, 0, 0); got != 0.1 {
		t.Errorf("upstream turbulence: got %g, want ambient 0.1", got)
	}
	if got := field.Get(TI, 0, 1); different(got, 0.2, 1e-12) {
		t.Errorf("turbulence behind two wakes: got %g, want 0.2", got)
	}
}

func TestFlowFieldErrors(t *testing.T) {
	m := testModel()
	fw := runRow(t, 2, SingleCondition(270, 8, 0.1), m)

	if _, err := fw.FlowField(m, nil); err == nil {
		t.Error("expected an error for an empty point list")
	}
	if _, err := fw.FlowField(m, []FlowPoint{{Point: geom.Point{X: math.NaN()}}}); err == nil {
		t.Error("expected an error for a NaN point")
	}

	// Queries before the simulation has run are rejected.
	unrun := &FarmWake{InitFuncs: []FarmManipulator{
		Load(NewRowFarm(2, geom.Point{}, geom.Point{X: 500}, simpleType()), SingleCondition(270, 8, 0.1)),
	}}
	if err := unrun.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := unrun.FlowField(m, []FlowPoint{{Height: 100}}); err == nil {
		t.Error("expected an error before the simulation has run")
	}
}

func TestHorizontalSlice(t *testing.T) {
	m := testModel()
	fw := runRow(t, 2, SingleCondition(270, 8, 0.1), m)

	bounds := &geom.Bounds{Min: geom.Point{X: -1000, Y: -100}, Max: geom.Point{X: 1000, Y: 100}}
	slice, err := fw.HorizontalSlice(m, WS, 0, 100, bounds, 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	ny, nx := slice.Dims()
	if ny != 3 || nx != 5 {
		t.Fatalf("slice dims: got (%d, %d), want (3, 5)", ny, nx)
	}
	// Column 0 is the western (upstream) edge: ambient everywhere.
	for iy := 0; iy < ny; iy++ {
		if got := slice.At(iy, 0); got != 8 {
			t.Errorf("upstream edge row %d: got %g, want 8", iy, got)
		}
	}
	// The eastern edge at x=1000 on the row axis sits behind both
	// turbines: 8 - 0.1·(8 + 7.2). The middle row is the row axis.
	if got := slice.At(1, 4); different(got, 8-0.1*(8+7.2), 1e-12) {
		t.Errorf("downstream centerline: got %g, want %g", got, 8-0.1*(8+7.2))
	}
	// No sampled speed exceeds ambient.
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			if slice.At(iy, ix) > 8 {
				t.Errorf("sample (%d, %d) exceeds ambient: %g", iy, ix, slice.At(iy, ix))
			}
		}
	}
}

func TestHorizontalSliceErrors(t *testing.T) {
	m := testModel()
	fw := runRow(t, 2, SingleCondition(270, 8, 0.1), m)
	bounds := &geom.Bounds{Min: geom.Point{X: -100, Y: -100}, Max: geom.Point{X: 100, Y: 100}}

	if _, err := fw.HorizontalSlice(m, P, 0, 100, bounds, 5, 3); err == nil {
		t.Error("expected an error for a non-flow variable")
	}
	if _, err := fw.HorizontalSlice(m, WS, 1, 100, bounds, 5, 3); err == nil {
		t.Error("expected an error for an out-of-range state")
	}
	if _, err := fw.HorizontalSlice(m, WS, 0, 100, bounds, 1, 3); err == nil {
		t.Error("expected an error for a degenerate sampling grid")
	}
	empty := geom.NewBounds()
	if _, err := fw.HorizontalSlice(m, WS, 0, 100, empty, 5, 3); err == nil {
		t.Error("expected an error for empty bounds")
	}
}
