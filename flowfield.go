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
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// FlowPoint is an arbitrary evaluation point for flow-field queries:
// a horizontal position in farm coordinates plus a height above ground.
type FlowPoint struct {
	geom.Point
	Height float64 // [m]
}

// FlowField evaluates the effective wind speed and turbulence intensity
// at arbitrary points for every condition, reusing the wake model
// against the resolved per-turbine source strengths. It may only be
// called after the simulation has run. The returned grid holds the
// variables WS and TI with shape [nStates, len(pts)]; points upstream
// of (or far from) every wake see the ambient values.
func (fw *FarmWake) FlowField(m *WakeModel, pts []FlowPoint) (*StateGrid, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}
	if err := fw.resolved(); err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("farmwake: flow field query with no points")
	}
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Height) {
			return nil, invalidGeometry("non-finite flow field point (%g, %g, %g)", p.X, p.Y, p.Height)
		}
	}

	c := fw.conditions
	out := NewStateGrid(c.Len(), len(pts), WS, TI)
	outWS, _ := out.Var(WS)
	outTI, _ := out.Var(TI)

	var dws, dti []float64
	for s := 0; s < c.Len(); s++ {
		fx, fy := flowVector(c.WD[s])
		px, py := -fy, fx
		ws := fw.grid.stateRow(fw.grid.data[WS], s)
		ti := fw.grid.stateRow(fw.grid.data[TI], s)
		ct := fw.grid.stateRow(fw.grid.data[CT], s)

		for pi, p := range pts {
			dws = dws[:0]
			dti = dti[:0]
			for i, t := range fw.farm.Turbines {
				dx := p.X - t.Pos.X
				dy := p.Y - t.Pos.Y
				g := WakeGeometry{
					X: dx*fx + dy*fy,
					Y: dx*px + dy*py,
					Z: p.Height - t.Hub(),
				}
				src := WakeSource{WS: ws[i], TI: ti[i], CT: ct[i], D: t.Type.D}
				if frac := m.Deficit.Deficit(src, g); frac > 0 {
					dws = append(dws, frac*src.WS)
				}
				if m.Turbulence != nil {
					if add := m.Turbulence.TIAddition(src, g); add > 0 {
						dti = append(dti, add)
					}
				}
			}
			effWS, effTI := c.WS[s], c.TI[s]
			if len(dws) > 0 {
				effWS = m.Superposition.Deficit(effWS, dws)
			}
			if len(dti) > 0 {
				effTI = m.Superposition.Excess(effTI, dti)
			}
			outWS.Set(effWS, s, pi)
			outTI.Set(effTI, s, pi)
		}
	}
	return out, nil
}

// HorizontalSlice samples the effective value of the named flow
// variable (WS or TI) for one condition on a regular nx × ny grid at
// the given height, covering bounds. The result is a matrix with ny
// rows and nx columns; row 0 holds the southern edge (minimum Y). It is
// intended for the visualization collaborators.
func (fw *FarmWake) HorizontalSlice(m *WakeModel, varName string, state int, height float64, bounds *geom.Bounds, nx, ny int) (*mat.Dense, error) {
	if varName != WS && varName != TI {
		return nil, fmt.Errorf("farmwake: horizontal slice variable must be %s or %s; got %q", WS, TI, varName)
	}
	if err := fw.resolved(); err != nil {
		return nil, err
	}
	if state < 0 || state >= fw.conditions.Len() {
		return nil, fmt.Errorf("farmwake: horizontal slice state %d out of range [0, %d)", state, fw.conditions.Len())
	}
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("farmwake: horizontal slice needs at least a 2×2 grid; got %d×%d", nx, ny)
	}
	if bounds == nil || bounds.Empty() {
		return nil, invalidGeometry("horizontal slice bounds are empty")
	}

	pts := make([]FlowPoint, 0, nx*ny)
	dx := (bounds.Max.X - bounds.Min.X) / float64(nx-1)
	dy := (bounds.Max.Y - bounds.Min.Y) / float64(ny-1)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			pts = append(pts, FlowPoint{
				Point:  geom.Point{X: bounds.Min.X + float64(ix)*dx, Y: bounds.Min.Y + float64(iy)*dy},
				Height: height,
			})
		}
	}

	// Evaluate only the requested condition.
	sub := &FarmWake{
		farm: fw.farm,
		conditions: &Conditions{
			WD: fw.conditions.WD[state : state+1],
			WS: fw.conditions.WS[state : state+1],
			TI: fw.conditions.TI[state : state+1],
		},
		grid:   fw.stateSubgrid(state),
		sweeps: fw.sweeps,
	}
	field, err := sub.FlowField(m, pts)
	if err != nil {
		return nil, err
	}
	a, err := field.Var(varName)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(ny, nx, nil)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			out.Set(iy, ix, a.Get(0, iy*nx+ix))
		}
	}
	return out, nil
}

// stateSubgrid returns a single-state copy of the farm grid holding
// the variables the flow-field query reads.
func (fw *FarmWake) stateSubgrid(state int) *StateGrid {
	sub := NewStateGrid(1, fw.grid.nColumns, WS, TI, CT)
	for _, v := range []string{WS, TI, CT} {
		copy(sub.stateRow(sub.data[v], 0), fw.grid.stateRow(fw.grid.data[v], state))
	}
	return sub
}

// resolved returns an error if the simulation has not completed at
// least one downwind sweep.
func (fw *FarmWake) resolved() error {
	if err := fw.loaded(); err != nil {
		return err
	}
	if fw.sweeps == 0 {
		return fmt.Errorf("farmwake: farm state not resolved; Run must complete before querying results")
	}
	return nil
}
