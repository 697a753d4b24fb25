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

package wakemodel

import (
	"math"

	"github.com/spatialmodel/farmwake"
)

// CrespoHernandez is the added-turbulence model of Crespo & Hernández
// (1996): inside the wake region the turbulence intensity added by the
// wake is a power law of the source induction factor, the source
// turbulence intensity, and the normalized downwind distance.
type CrespoHernandez struct {
	// K and KTI control the growth of the wake region the added
	// turbulence is confined to, with the same semantics as the
	// Jensen growth parameters.
	K   float64
	KTI float64
}

// Name returns "crespo_hernandez".
func (c CrespoHernandez) Name() string { return "crespo_hernandez" }

// The model coefficients and the downwind validity floor from Crespo &
// Hernández (1996); below nearWakeXD rotor diameters the correlation
// is evaluated at nearWakeXD.
const (
	chAmplitude  = 0.66
	chExpA       = 0.83
	chExpTI      = 0.03
	chExpX       = -0.32
	chNearWakeXD = 0.1
)

// TIAddition returns the turbulence intensity added at g.
func (c CrespoHernandez) TIAddition(src farmwake.WakeSource, g farmwake.WakeGeometry) float64 {
	if g.X <= 0 || src.CT <= 0 {
		return 0
	}
	a := farmwake.InductionFactor(src.CT)
	if a <= 0 {
		return 0
	}
	k := growth(c.K, c.KTI, src.TI)
	radius := src.D/2 + k*g.X
	if math.Sqrt(g.Y*g.Y+g.Z*g.Z) > radius {
		return 0
	}
	xD := g.X / src.D
	if xD < chNearWakeXD {
		xD = chNearWakeXD
	}
	ti := src.TI
	if ti <= 0 {
		return 0
	}
	return chAmplitude * math.Pow(a, chExpA) * math.Pow(ti, chExpTI) * math.Pow(xD, chExpX)
}
