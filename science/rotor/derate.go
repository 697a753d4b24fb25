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

package rotor

import (
	"fmt"
	"math"

	"github.com/spatialmodel/farmwake"
)

// Derate wraps another performance model and curtails its power output
// to a fraction of the turbine's rated power, as a farm controller
// would. The thrust coefficient is reduced along with the loading using
// the constant-efficiency approximation ct·(Pcap/P)^⅔.
type Derate struct {
	// Model is the wrapped performance model.
	Model farmwake.PerformanceModel

	// Fraction is the allowed share of rated power, in (0, 1].
	Fraction float64
}

// Name returns "derate".
func (Derate) Name() string { return "derate" }

// Performance returns the wrapped model's operating point, curtailed.
func (m Derate) Performance(t *farmwake.TurbineType, ws, ti, rho float64) (power, ct float64, err error) {
	if m.Model == nil {
		return 0, 0, fmt.Errorf("rotor: derate wraps no performance model")
	}
	if m.Fraction <= 0 || m.Fraction > 1 {
		return 0, 0, fmt.Errorf("rotor: derate fraction %g outside (0, 1]", m.Fraction)
	}
	power, ct, err = m.Model.Performance(t, ws, ti, rho)
	if err != nil {
		return 0, 0, err
	}
	cap := m.Fraction * t.Rated()
	if cap > 0 && power > cap {
		ct *= math.Pow(cap/power, 2./3.)
		power = cap
	}
	return power, ct, nil
}
