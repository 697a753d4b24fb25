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

// Jensen is the classical top-hat wake model (Jensen 1983): the wake
// expands linearly with downwind distance and the deficit is uniform
// across the wake cross-section.
type Jensen struct {
	// K is the fixed wake growth parameter. If KTI is positive it
	// takes precedence and the growth is KTI times the source
	// turbulence intensity.
	K   float64
	KTI float64
}

// Name returns "jensen".
func (j Jensen) Name() string { return "jensen" }

// Deficit returns the fractional wind speed deficit at g. Inside the
// expanded wake radius the deficit is
// (1-√(1-ct)) / (1 + 2kx/D)²; outside it is zero.
func (j Jensen) Deficit(src farmwake.WakeSource, g farmwake.WakeGeometry) float64 {
	if g.X <= 0 || src.CT <= 0 {
		return 0
	}
	ct := clampCT(src.CT)
	k := growth(j.K, j.KTI, src.TI)
	radius := src.D/2 + k*g.X
	if math.Sqrt(g.Y*g.Y+g.Z*g.Z) > radius {
		return 0
	}
	expansion := 1 + 2*k*g.X/src.D
	return (1 - math.Sqrt(1-ct)) / (expansion * expansion)
}
