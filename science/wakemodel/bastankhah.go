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

// Bastankhah is the Gaussian wake model of Bastankhah & Porté-Agel
// (2014): the deficit follows a self-similar Gaussian profile whose
// characteristic width σ grows linearly with downwind distance,
// σ/D = k·x/D + ε with ε = 0.2√β.
type Bastankhah struct {
	// K is the fixed growth rate of σ. If KTI is positive it takes
	// precedence and the growth is KTI times the source turbulence
	// intensity.
	K   float64
	KTI float64
}

// Name returns "bastankhah".
func (b Bastankhah) Name() string { return "bastankhah" }

// Deficit returns the fractional wind speed deficit at g. In the near
// wake, where momentum theory would make the centerline radical
// negative, the centerline deficit is capped at one.
func (b Bastankhah) Deficit(src farmwake.WakeSource, g farmwake.WakeGeometry) float64 {
	if g.X <= 0 || src.CT <= 0 {
		return 0
	}
	ct := clampCT(src.CT)
	kti := b.KTI
	if b.K <= 0 && kti <= 0 {
		kti = defaultKTI
	}
	k := growth(b.K, kti, src.TI)

	sqrt1ct := math.Sqrt(1 - ct)
	beta := 0.5 * (1 + sqrt1ct) / sqrt1ct
	sigma := k*g.X + 0.2*math.Sqrt(beta)*src.D

	arg := 1 - ct/(8*sigma*sigma/(src.D*src.D))
	if arg < 0 {
		arg = 0
	}
	radial := (g.Y*g.Y + g.Z*g.Z) / (2 * sigma * sigma)
	return (1 - math.Sqrt(arg)) * math.Exp(-radial)
}
