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

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"
)

// Power dimensions [kg m²/s³ = W].
var powerDimensions = unit.Dimensions{
	unit.MassDim:   1,
	unit.LengthDim: 2,
	unit.TimeDim:   -3,
}

const hoursPerYear = 8760.

// Results returns copies of the requested result variables (all of
// FarmVars if none are named), each with shape [nStates, nTurbines].
// It may only be called after the simulation has run.
func (fw *FarmWake) Results(vars ...string) (map[string]*sparse.DenseArray, error) {
	if err := fw.resolved(); err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		vars = fw.grid.Vars()
	}
	out := make(map[string]*sparse.DenseArray, len(vars))
	for _, v := range vars {
		a, err := fw.grid.VarCopy(v)
		if err != nil {
			return nil, err
		}
		out[v] = a
	}
	return out, nil
}

// FarmPower returns the total farm power for one condition.
func (fw *FarmWake) FarmPower(state int) (*unit.Unit, error) {
	return fw.farmPower(state, P)
}

// AmbientFarmPower returns the total farm power for one condition with
// all wake effects ignored.
func (fw *FarmWake) AmbientFarmPower(state int) (*unit.Unit, error) {
	return fw.farmPower(state, AmbP)
}

func (fw *FarmWake) farmPower(state int, powerVar string) (*unit.Unit, error) {
	if err := fw.resolved(); err != nil {
		return nil, err
	}
	if state < 0 || state >= fw.conditions.Len() {
		return nil, fmt.Errorf("farmwake: state %d out of range [0, %d)", state, fw.conditions.Len())
	}
	row := fw.grid.stateRow(fw.grid.data[powerVar], state)
	return unit.New(floats.Sum(row), powerDimensions), nil
}

// MeanFarmPower returns the farm power averaged over all conditions,
// weighted by the condition weights.
func (fw *FarmWake) MeanFarmPower() (*unit.Unit, error) {
	return fw.meanFarmPower(P)
}

func (fw *FarmWake) meanFarmPower(powerVar string) (*unit.Unit, error) {
	if err := fw.resolved(); err != nil {
		return nil, err
	}
	var sum, wsum float64
	for s := 0; s < fw.conditions.Len(); s++ {
		w := fw.conditions.StateWeight(s)
		sum += w * floats.Sum(fw.grid.stateRow(fw.grid.data[powerVar], s))
		wsum += w
	}
	if wsum == 0 {
		return nil, fmt.Errorf("farmwake: condition weights sum to zero")
	}
	return unit.New(sum/wsum, powerDimensions), nil
}

// AnnualEnergy returns the farm's annual energy yield [J], treating the
// condition weights as frequencies of occurrence over a year.
func (fw *FarmWake) AnnualEnergy() (*unit.Unit, error) {
	mean, err := fw.MeanFarmPower()
	if err != nil {
		return nil, err
	}
	return unit.Mul(mean, unit.New(hoursPerYear*3600, unit.Second)), nil
}

// Efficiency returns the ratio of weighted mean farm power to the
// weighted mean power the same farm would produce with all wake effects
// ignored. It is 1 for a farm whose turbines never wake one another.
func (fw *FarmWake) Efficiency() (float64, error) {
	waked, err := fw.meanFarmPower(P)
	if err != nil {
		return 0, err
	}
	ambient, err := fw.meanFarmPower(AmbP)
	if err != nil {
		return 0, err
	}
	if ambient.Value() == 0 {
		return 0, fmt.Errorf("farmwake: ambient farm power is zero; efficiency undefined")
	}
	return waked.Value() / ambient.Value(), nil
}

// TurbinePower returns the weight-averaged power [W] of each turbine,
// ordered as in the farm layout.
func (fw *FarmWake) TurbinePower() ([]float64, error) {
	if err := fw.resolved(); err != nil {
		return nil, err
	}
	n := len(fw.farm.Turbines)
	out := make([]float64, n)
	var wsum float64
	for s := 0; s < fw.conditions.Len(); s++ {
		w := fw.conditions.StateWeight(s)
		floats.AddScaled(out, w, fw.grid.stateRow(fw.grid.data[P], s))
		wsum += w
	}
	if wsum == 0 {
		return nil, fmt.Errorf("farmwake: condition weights sum to zero")
	}
	floats.Scale(1/wsum, out)
	return out, nil
}
