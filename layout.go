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

	"github.com/ctessum/geom"
)

// DefaultAirDensity [kg/m³] is used for conditions that do not specify
// a density.
const DefaultAirDensity = 1.225

// TurbineType describes the hardware characteristics shared by all
// turbines of one model. It is immutable during a simulation.
type TurbineType struct {
	Name string

	D float64 // rotor diameter [m]
	H float64 // hub height [m]

	CutIn  float64 // cut-in wind speed [m/s]
	CutOut float64 // cut-out wind speed [m/s]

	// RatedPower [W] is the nameplate capacity. If zero, the maximum
	// of the power curve is used where a rated value is needed.
	RatedPower float64

	// RefDensity [kg/m³] is the air density the performance curves
	// were measured at. If zero, DefaultAirDensity is assumed.
	RefDensity float64

	// Speeds holds the abscissae of the performance curves [m/s],
	// strictly increasing. Power [W] and CT (thrust coefficient) hold
	// the corresponding ordinates.
	Speeds []float64
	Power  []float64
	CT     []float64
}

// Rated returns the rated power [W], falling back to the power curve
// maximum if no nameplate value is set.
func (t *TurbineType) Rated() float64 {
	if t.RatedPower > 0 {
		return t.RatedPower
	}
	var max float64
	for _, p := range t.Power {
		if p > max {
			max = p
		}
	}
	return max
}

// check validates the curve data.
func (t *TurbineType) check() error {
	if t == nil {
		return invalidGeometry("turbine type is nil")
	}
	if !(t.D > 0) {
		return invalidGeometry("turbine type %s: rotor diameter %g must be positive", t.Name, t.D)
	}
	if len(t.Speeds) != len(t.Power) || len(t.Speeds) != len(t.CT) {
		return invalidGeometry("turbine type %s: curve lengths differ: %d speeds, %d power, %d ct",
			t.Name, len(t.Speeds), len(t.Power), len(t.CT))
	}
	for i := 1; i < len(t.Speeds); i++ {
		if !(t.Speeds[i] > t.Speeds[i-1]) {
			return invalidGeometry("turbine type %s: curve speeds not strictly increasing at index %d", t.Name, i)
		}
	}
	for i, s := range t.Speeds {
		if math.IsNaN(s) || math.IsNaN(t.Power[i]) || math.IsNaN(t.CT[i]) {
			return invalidGeometry("turbine type %s: NaN in curve data at index %d", t.Name, i)
		}
	}
	return nil
}

// Turbine is one installed machine: a position in farm coordinates and
// a reference to its hardware type.
type Turbine struct {
	// Index is the turbine's unique identity within the farm.
	Index int

	// Pos is the turbine base position in farm coordinates [m].
	Pos geom.Point

	// HubHeight [m] overrides the type hub height if positive.
	HubHeight float64

	Type *TurbineType
}

// Hub returns the effective hub height [m].
func (t *Turbine) Hub() float64 {
	if t.HubHeight > 0 {
		return t.HubHeight
	}
	return t.Type.H
}

// Farm is an ordered collection of turbines with unique indices.
// It is owned by the caller and only read by the engine.
type Farm struct {
	Turbines []*Turbine
}

// NewRowFarm creates a farm of n turbines of the given type laid out in
// a row starting at base with the given step between machines.
func NewRowFarm(n int, base, step geom.Point, typ *TurbineType) *Farm {
	f := &Farm{Turbines: make([]*Turbine, n)}
	for i := 0; i < n; i++ {
		f.Turbines[i] = &Turbine{
			Index: i,
			Pos:   geom.Point{X: base.X + float64(i)*step.X, Y: base.Y + float64(i)*step.Y},
			Type:  typ,
		}
	}
	return f
}

// Check validates the farm layout, returning an InvalidGeometryError
// describing the first problem found.
func (f *Farm) Check() error {
	if f == nil || len(f.Turbines) == 0 {
		return invalidGeometry("farm holds no turbines")
	}
	seenIndex := make(map[int]int, len(f.Turbines))
	seenPos := make(map[geom.Point]int, len(f.Turbines))
	for i, t := range f.Turbines {
		if t == nil {
			return invalidGeometry("turbine at list position %d is nil", i)
		}
		if j, ok := seenIndex[t.Index]; ok {
			return &InvalidGeometryError{Problem: "duplicate turbine index", Turbines: []int{f.Turbines[j].Index, t.Index}}
		}
		seenIndex[t.Index] = i
		if math.IsNaN(t.Pos.X) || math.IsNaN(t.Pos.Y) || math.IsInf(t.Pos.X, 0) || math.IsInf(t.Pos.Y, 0) {
			return &InvalidGeometryError{Problem: "non-finite turbine position", Turbines: []int{t.Index}}
		}
		if j, ok := seenPos[t.Pos]; ok {
			return &InvalidGeometryError{Problem: "duplicate turbine position", Turbines: []int{f.Turbines[j].Index, t.Index}}
		}
		seenPos[t.Pos] = i
		if err := t.Type.check(); err != nil {
			return err
		}
		if !(t.Hub() > 0) {
			return &InvalidGeometryError{Problem: "non-positive hub height", Turbines: []int{t.Index}}
		}
	}
	return nil
}

// Conditions is a batch of ambient wind conditions to be evaluated
// together. All slices have equal length; Rho and Weight may be nil.
// Conditions are immutable once defined and are processed independently
// of one another.
type Conditions struct {
	WD []float64 // wind direction [degrees, meteorological]
	WS []float64 // wind speed [m/s]
	TI []float64 // turbulence intensity [fraction]

	// Rho holds the air density [kg/m³] of each condition.
	// If nil, DefaultAirDensity applies.
	Rho []float64

	// Weight holds the statistical weight (e.g. frequency of
	// occurrence) of each condition. If nil, all conditions are
	// weighted equally.
	Weight []float64
}

// SingleCondition returns a Conditions batch holding one state.
func SingleCondition(wd, ws, ti float64) *Conditions {
	return &Conditions{WD: []float64{wd}, WS: []float64{ws}, TI: []float64{ti}}
}

// Len returns the number of conditions in the batch.
func (c *Conditions) Len() int { return len(c.WD) }

// Density returns the air density of condition s.
func (c *Conditions) Density(s int) float64 {
	if c.Rho == nil {
		return DefaultAirDensity
	}
	return c.Rho[s]
}

// StateWeight returns the weight of condition s.
func (c *Conditions) StateWeight(s int) float64 {
	if c.Weight == nil {
		return 1
	}
	return c.Weight[s]
}

// Check validates the condition batch.
func (c *Conditions) Check() error {
	if c == nil || c.Len() == 0 {
		return invalidGeometry("no wind conditions given")
	}
	n := c.Len()
	if len(c.WS) != n || len(c.TI) != n ||
		(c.Rho != nil && len(c.Rho) != n) || (c.Weight != nil && len(c.Weight) != n) {
		return invalidGeometry("condition slices have unequal lengths")
	}
	for s := 0; s < n; s++ {
		if math.IsNaN(c.WD[s]) || math.IsInf(c.WD[s], 0) {
			return invalidGeometry("non-finite wind direction %g for condition %d", c.WD[s], s)
		}
		if math.IsNaN(c.WS[s]) || c.WS[s] < 0 {
			return invalidGeometry("invalid wind speed %g for condition %d", c.WS[s], s)
		}
		if math.IsNaN(c.TI[s]) || c.TI[s] < 0 {
			return invalidGeometry("invalid turbulence intensity %g for condition %d", c.TI[s], s)
		}
		if c.Rho != nil && !(c.Rho[s] > 0) {
			return invalidGeometry("non-positive air density %g for condition %d", c.Rho[s], s)
		}
	}
	return nil
}
