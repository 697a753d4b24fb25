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

// Package wakemodel contains wake deficit and wake turbulence models
// for the FarmWake wind-farm engine. All models return fractional wind
// speed deficits relative to the wake source's rotor-effective wind
// speed, and all return zero for points at or upstream of the source
// rotor and for parked (zero thrust) turbines.
package wakemodel

import "github.com/spatialmodel/farmwake"

func init() {
	farmwake.RegisterDeficitModel(Jensen{})
	farmwake.RegisterDeficitModel(Bastankhah{})
	farmwake.RegisterTurbulenceModel(CrespoHernandez{})
}

// Default wake growth: if KTI is set the wake grows with the local
// turbulence intensity at the source, k = KTI·TI (the turbulence-
// proportional growth commonly fit to measurements); otherwise a
// fixed K applies.
const (
	defaultK   = 0.05
	defaultKTI = 0.4
)

// growth returns the wake growth parameter for a model configured with
// fixed rate k and turbulence-proportional rate kti, at source
// turbulence intensity ti.
func growth(k, kti, ti float64) float64 {
	if kti > 0 {
		return kti * ti
	}
	if k > 0 {
		return k
	}
	return defaultK
}

// clampCT limits a thrust coefficient to just below unity so the
// momentum-theory radicals stay defined.
func clampCT(ct float64) float64 {
	if ct > 0.9999 {
		return 0.9999
	}
	return ct
}
