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

// Package rotor contains turbine performance models for the FarmWake
// wind-farm engine: the conversion of local effective inflow into
// power and thrust coefficient. All models return zero power and zero
// thrust outside the cut-in/cut-out band; there is no extrapolation
// beyond the installed curves.
package rotor

import (
	"fmt"
	"math"
	"sort"

	"github.com/spatialmodel/farmwake"
)

func init() {
	farmwake.RegisterPerformanceModel(PCtCurve{})
	farmwake.RegisterPerformanceModel(ActuatorDisk{})
}

// PCtCurve evaluates the turbine type's installed power and
// thrust-coefficient curves by piecewise-linear interpolation. Inflow
// density differing from the curve reference density is handled with
// the equivalent-wind-speed correction ws·(ρ/ρref)^⅓.
type PCtCurve struct{}

// Name returns "p_ct_curve".
func (PCtCurve) Name() string { return "p_ct_curve" }

// Performance returns the interpolated operating point.
func (PCtCurve) Performance(t *farmwake.TurbineType, ws, ti, rho float64) (power, ct float64, err error) {
	if t == nil || len(t.Speeds) == 0 {
		return 0, 0, fmt.Errorf("rotor: turbine type has no performance curves")
	}
	if outsideOperatingBand(t, ws) {
		return 0, 0, nil
	}
	ref := t.RefDensity
	if ref <= 0 {
		ref = farmwake.DefaultAirDensity
	}
	if rho > 0 && rho != ref {
		ws *= math.Cbrt(rho / ref)
	}
	power = interp(t.Speeds, t.Power, ws)
	if power < 0 {
		power = 0
	}
	ct = interp(t.Speeds, t.CT, ws)
	if ct < 0 {
		ct = 0
	} else if ct > 0.9999 {
		ct = 0.9999
	}
	return power, ct, nil
}

// outsideOperatingBand reports whether ws falls outside the turbine's
// cut-in/cut-out limits. A zero limit means the corresponding bound is
// not set.
func outsideOperatingBand(t *farmwake.TurbineType, ws float64) bool {
	if ws < t.CutIn {
		return true
	}
	if t.CutOut > 0 && ws > t.CutOut {
		return true
	}
	return false
}

// interp linearly interpolates ys over xs at x, holding the end values
// beyond the curve ends. xs must be strictly increasing (the layout
// check enforces this).
func interp(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(xs, x)
	// xs[i-1] < x <= xs[i]
	frac := (x - xs[i-1]) / (xs[i] - xs[i-1])
	return ys[i-1] + frac*(ys[i]-ys[i-1])
}
