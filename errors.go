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

import "fmt"

// InvalidGeometryError reports malformed farm layout or wind direction
// data. It aborts the run that detects it.
type InvalidGeometryError struct {
	// Problem describes what is wrong with the geometry.
	Problem string

	// Turbines holds the indices of the offending turbines,
	// if the problem is attributable to specific turbines.
	Turbines []int
}

func (e *InvalidGeometryError) Error() string {
	if len(e.Turbines) == 0 {
		return fmt.Sprintf("farmwake: invalid geometry: %s", e.Problem)
	}
	return fmt.Sprintf("farmwake: invalid geometry: %s (turbines %v)", e.Problem, e.Turbines)
}

func invalidGeometry(format string, args ...interface{}) *InvalidGeometryError {
	return &InvalidGeometryError{Problem: fmt.Sprintf(format, args...)}
}

// ConvergenceError reports that the fixed-point iteration reached its
// iteration limit before the farm state stabilized. The last iterate
// remains in the state grid so that the caller may choose to accept the
// approximate result.
type ConvergenceError struct {
	Iterations int     // sweeps completed
	Residual   float64 // achieved max |ΔWS| [m/s]
	Tolerance  float64 // requested tolerance [m/s]
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("farmwake: farm state not converged after %d sweeps: residual %.3g m/s > tolerance %.3g m/s",
		e.Iterations, e.Residual, e.Tolerance)
}

// ModelContractError reports that a plugged-in deficit, turbulence,
// superposition, or performance model returned a NaN or out-of-range
// value. The engine fails fast rather than propagating invalid values
// through the farm.
type ModelContractError struct {
	Model    string  // name of the offending model
	Variable string  // variable the model was computing
	Value    float64 // the invalid value
	State    int     // wind condition index
	Turbine  int     // turbine index
}

func (e *ModelContractError) Error() string {
	return fmt.Sprintf("farmwake: model %s returned invalid %s=%g for state %d, turbine %d",
		e.Model, e.Variable, e.Value, e.State, e.Turbine)
}
