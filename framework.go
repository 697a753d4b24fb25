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

// Package farmwake resolves the aerodynamic interaction of wind
// turbines inside a wind farm: for a batch of ambient wind conditions
// it computes every turbine's waked inflow, power, and thrust
// coefficient, and can evaluate the resolved flow field at arbitrary
// points.
package farmwake

import "fmt"

// Version gives the version number.
const Version = "0.3.0"

// FarmWake holds the current state of a wind-farm wake simulation.
type FarmWake struct {
	// InitFuncs are run (in order) before the simulation starts.
	InitFuncs []FarmManipulator

	// RunFuncs are run (in order) once per downwind sweep, until
	// Done is set to true.
	RunFuncs []FarmManipulator

	// CleanupFuncs are run (in order) after the simulation finishes.
	CleanupFuncs []FarmManipulator

	// Done specifies whether the simulation is finished.
	Done bool

	farm       *Farm
	conditions *Conditions
	grid       *StateGrid

	// orders holds one resolved downwind order per condition.
	// Conditions in the same direction bucket share a pointer.
	orders []*downwindOrder

	// sweeps counts completed downwind sweeps; residual holds the
	// maximum absolute change in effective wind speed [m/s] during
	// the most recent sweep.
	sweeps   int
	residual float64
}

// FarmManipulator is a function that operates on the simulation state,
// for example to resolve the wake dependency order or to perform a
// downwind calculation sweep.
type FarmManipulator func(fw *FarmWake) error

// Init initializes the simulation by running InitFuncs.
func (fw *FarmWake) Init() error {
	for _, f := range fw.InitFuncs {
		if err := f(fw); err != nil {
			return err
		}
	}
	return nil
}

// Run cycles through RunFuncs until Done is true.
func (fw *FarmWake) Run() error {
	for !fw.Done {
		for _, f := range fw.RunFuncs {
			if err := f(fw); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup finishes the simulation by running CleanupFuncs.
func (fw *FarmWake) Cleanup() error {
	for _, f := range fw.CleanupFuncs {
		if err := f(fw); err != nil {
			return err
		}
	}
	return nil
}

// Farm returns the farm layout the simulation operates on.
func (fw *FarmWake) Farm() *Farm { return fw.farm }

// Conditions returns the wind condition batch the simulation operates on.
func (fw *FarmWake) Conditions() *Conditions { return fw.conditions }

// Grid returns the simulation state grid, or nil before Load has run.
func (fw *FarmWake) Grid() *StateGrid { return fw.grid }

// Sweeps returns the number of completed downwind sweeps.
func (fw *FarmWake) Sweeps() int { return fw.sweeps }

// Residual returns the maximum absolute change in effective wind speed
// [m/s] during the most recent sweep.
func (fw *FarmWake) Residual() float64 { return fw.residual }

// loaded returns an error if Load has not run yet.
func (fw *FarmWake) loaded() error {
	if fw.grid == nil {
		return fmt.Errorf("farmwake: simulation is not loaded; Load must run first")
	}
	return nil
}
