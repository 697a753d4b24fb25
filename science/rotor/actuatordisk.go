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
	"math"

	"github.com/spatialmodel/farmwake"
)

// ActuatorDisk is the analytic one-dimensional momentum model: the
// rotor operates at a constant axial induction factor, giving
// CT = 4a(1-a) and P = ½ρA·4a(1-a)²·ws³. It needs no installed curves,
// only the rotor diameter.
type ActuatorDisk struct {
	// Induction is the axial induction factor a. If zero, the
	// Betz-optimal a = 1/3 applies.
	Induction float64
}

// Name returns "actuator_disk".
func (ActuatorDisk) Name() string { return "actuator_disk" }

// Performance returns the momentum-theory operating point. If the
// turbine type carries a rated power, the output is capped there.
func (m ActuatorDisk) Performance(t *farmwake.TurbineType, ws, ti, rho float64) (power, ct float64, err error) {
	if outsideOperatingBand(t, ws) {
		return 0, 0, nil
	}
	a := m.Induction
	if a <= 0 {
		a = 1. / 3.
	}
	if rho <= 0 {
		rho = farmwake.DefaultAirDensity
	}
	area := math.Pi * t.D * t.D / 4
	ct = 4 * a * (1 - a)
	cp := 4 * a * (1 - a) * (1 - a)
	power = 0.5 * rho * area * cp * ws * ws * ws
	if rated := t.Rated(); rated > 0 && power > rated {
		power = rated
	}
	return power, ct, nil
}
