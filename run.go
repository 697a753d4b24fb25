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
	"io"
	"time"
)

// Load returns an initialization function that validates the farm
// layout and condition batch, allocates the state grid, and fills in
// the ambient flow variables. The effective wind speed and turbulence
// intensity start out equal to ambient; the downwind sweeps then carve
// the wake deficits into them.
//
// The farm and conditions are owned by the caller; the simulation only
// reads them.
func Load(farm *Farm, c *Conditions) FarmManipulator {
	return func(fw *FarmWake) error {
		if err := farm.Check(); err != nil {
			return err
		}
		if err := c.Check(); err != nil {
			return err
		}
		fw.farm = farm
		fw.conditions = c
		fw.grid = NewStateGrid(c.Len(), len(farm.Turbines), FarmVars...)
		for s := 0; s < c.Len(); s++ {
			for i := range farm.Turbines {
				fw.grid.Set(WD, c.WD[s], s, i)
				fw.grid.Set(RHO, c.Density(s), s, i)
				fw.grid.Set(AmbWS, c.WS[s], s, i)
				fw.grid.Set(AmbTI, c.TI[s], s, i)
				fw.grid.Set(WS, c.WS[s], s, i)
				fw.grid.Set(TI, c.TI[s], s, i)
			}
		}
		return nil
	}
}

// SinglePass returns a run function that finishes the simulation after
// one downwind sweep. The pure downwind dependency chain is exact in a
// single pass: every turbine is evaluated after all turbines that wake
// it, so a second sweep would reproduce the same state. This is the
// termination rule for all shipped model variants.
func SinglePass() FarmManipulator {
	return func(fw *FarmWake) error {
		fw.Done = true
		return nil
	}
}

// FixedPoint returns a run function implementing bounded fixed-point
// iteration for model variants whose operating state is not resolvable
// in one pass. The residual is the maximum absolute change in any
// turbine's effective wind speed between successive sweeps; the
// simulation is finished when the residual falls to tolerance [m/s] or
// below. If maxSweeps sweeps complete without convergence, a
// ConvergenceError carrying the achieved residual is returned and the
// last iterate remains in the state grid.
func FixedPoint(tolerance float64, maxSweeps int) FarmManipulator {
	return func(fw *FarmWake) error {
		if fw.sweeps > 0 && fw.residual <= tolerance {
			fw.Done = true
			return nil
		}
		if fw.sweeps >= maxSweeps {
			return &ConvergenceError{
				Iterations: fw.sweeps,
				Residual:   fw.residual,
				Tolerance:  tolerance,
			}
		}
		return nil
	}
}

// Log returns a run function that writes simulation status messages
// to w.
func Log(w io.Writer) FarmManipulator {
	startTime := time.Now()
	sweepTime := time.Now()

	return func(fw *FarmWake) error {
		fmt.Fprintf(w, "Sweep %-3d  walltime=%6.3gs  Δwalltime=%4.2gs  residual=%.3g m/s\n",
			fw.sweeps, time.Since(startTime).Seconds(),
			time.Since(sweepTime).Seconds(), fw.residual)
		sweepTime = time.Now()
		return nil
	}
}
