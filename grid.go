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
	"sort"

	"github.com/ctessum/sparse"
)

// Names of the flow and result variables held in a StateGrid.
// The effective variables (WS, TI) hold the waked values after a
// simulation; the AMB-prefixed variables hold the corresponding
// ambient values, which the wakes never modify.
const (
	WS  = "WS"  // effective wind speed [m/s]
	WD  = "WD"  // wind direction [degrees, meteorological]
	TI  = "TI"  // effective turbulence intensity [fraction]
	RHO = "RHO" // air density [kg/m³]
	P   = "P"   // power [W]
	CT  = "CT"  // thrust coefficient

	AmbWS = "AMB_WS" // ambient wind speed [m/s]
	AmbTI = "AMB_TI" // ambient turbulence intensity [fraction]
	AmbP  = "AMB_P"  // power at ambient inflow [W]
	AmbCT = "AMB_CT" // thrust coefficient at ambient inflow
)

// FarmVars lists the variables allocated for every farm simulation,
// each with shape [nStates, nTurbines].
var FarmVars = []string{WS, WD, TI, RHO, P, CT, AmbWS, AmbTI, AmbP, AmbCT}

// StateGrid holds simulation state variables as dense tensors indexed
// by (wind condition, turbine). The flow-field query produces grids of
// the same form indexed by (wind condition, evaluation point).
type StateGrid struct {
	data              map[string]*sparse.DenseArray
	nStates, nColumns int
}

// NewStateGrid allocates a zero-filled grid holding the given variables
// with shape [nStates, nColumns].
func NewStateGrid(nStates, nColumns int, vars ...string) *StateGrid {
	g := &StateGrid{
		data:     make(map[string]*sparse.DenseArray, len(vars)),
		nStates:  nStates,
		nColumns: nColumns,
	}
	for _, v := range vars {
		g.data[v] = sparse.ZerosDense(nStates, nColumns)
	}
	return g
}

// NStates returns the number of wind conditions in the grid.
func (g *StateGrid) NStates() int { return g.nStates }

// NColumns returns the size of the second grid dimension
// (turbines for farm grids, evaluation points for flow-field grids).
func (g *StateGrid) NColumns() int { return g.nColumns }

// Vars returns the sorted names of the variables held in the grid.
func (g *StateGrid) Vars() []string {
	vars := make([]string, 0, len(g.data))
	for v := range g.data {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}

// Var returns the array holding the named variable. The returned array
// is the grid's own storage, not a copy.
func (g *StateGrid) Var(name string) (*sparse.DenseArray, error) {
	a, ok := g.data[name]
	if !ok {
		return nil, fmt.Errorf("farmwake: no grid variable %q; valid variables are %v", name, g.Vars())
	}
	return a, nil
}

// VarCopy returns a copy of the array holding the named variable.
func (g *StateGrid) VarCopy(name string) (*sparse.DenseArray, error) {
	a, err := g.Var(name)
	if err != nil {
		return nil, err
	}
	return a.Copy(), nil
}

// Get returns the value of the named variable for the given state and
// column. It panics if the variable does not exist, matching the
// index-bounds behavior of the underlying arrays.
func (g *StateGrid) Get(name string, state, col int) float64 {
	return g.data[name].Get(state, col)
}

// Set sets the value of the named variable for the given state and column.
func (g *StateGrid) Set(name string, val float64, state, col int) {
	g.data[name].Set(val, state, col)
}

// stateRow returns the contiguous slice of values of array a belonging
// to the given state. The arrays are row-major with states as rows.
func (g *StateGrid) stateRow(a *sparse.DenseArray, state int) []float64 {
	return a.Elements[state*g.nColumns : (state+1)*g.nColumns]
}
