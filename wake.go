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
	"math"
	"runtime"
	"sync"
)

// WakeCalculation returns a run function that performs one full
// downwind sweep with the given models: for every condition it walks
// the resolved order; at each turbine it gathers the deficit
// contributions of the already-evaluated upstream turbines, combines
// them against the ambient state with the superposition rule, and feeds
// the effective inflow to the performance model, whose output becomes
// the turbine's wake-source strength for everything downstream of it.
//
// Conditions are independent of one another and are striped across
// GOMAXPROCS workers. A condition is never split between workers: the
// intra-condition dependency chain runs on one goroutine. Writes to the
// state grid are disjoint per condition, so no locking is needed.
func WakeCalculation(m *WakeModel) FarmManipulator {
	nprocs := runtime.GOMAXPROCS(0)

	return func(fw *FarmWake) error {
		if err := m.Check(); err != nil {
			return err
		}
		if err := fw.loaded(); err != nil {
			return err
		}
		if fw.orders == nil {
			return invalidGeometry("wake order not resolved; ResolveWakeOrder must run before WakeCalculation")
		}

		nStates := fw.conditions.Len()
		residuals := make([]float64, nprocs)
		errs := make([]error, nprocs)

		var wg sync.WaitGroup
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				defer wg.Done()
				sw := newSweeper(fw, m)
				for s := pp; s < nStates; s += nprocs {
					r, err := sw.sweepState(s)
					if err != nil {
						errs[pp] = err
						return
					}
					if r > residuals[pp] {
						residuals[pp] = r
					}
				}
			}(pp)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		fw.residual = 0
		for _, r := range residuals {
			if r > fw.residual {
				fw.residual = r
			}
		}
		fw.sweeps++
		return nil
	}
}

// sweeper holds the per-worker buffers for downwind sweeps. Each worker
// goroutine owns one sweeper; nothing in it is shared.
type sweeper struct {
	fw *FarmWake
	m  *WakeModel

	// contribution buffers, reused across turbines and states
	dws []float64 // wind speed deficits [m/s]
	dti []float64 // turbulence intensity additions
}

func newSweeper(fw *FarmWake, m *WakeModel) *sweeper {
	n := len(fw.farm.Turbines)
	return &sweeper{
		fw:  fw,
		m:   m,
		dws: make([]float64, 0, n),
		dti: make([]float64, 0, n),
	}
}

// sweepState performs the downwind walk for one condition, returning
// the maximum absolute change in effective wind speed.
func (sw *sweeper) sweepState(s int) (residual float64, err error) {
	fw, m := sw.fw, sw.m
	g := fw.grid
	ord := fw.orders[s]
	rho := fw.conditions.Density(s)

	ws := g.stateRow(g.data[WS], s)
	ti := g.stateRow(g.data[TI], s)
	ct := g.stateRow(g.data[CT], s)
	power := g.stateRow(g.data[P], s)
	ambWS := g.stateRow(g.data[AmbWS], s)
	ambTI := g.stateRow(g.data[AmbTI], s)

	// Fill in the unwaked reference results on the first sweep.
	if fw.sweeps == 0 {
		ambP := g.stateRow(g.data[AmbP], s)
		ambCT := g.stateRow(g.data[AmbCT], s)
		for i, t := range fw.farm.Turbines {
			p, c, err := m.Performance.Performance(t.Type, ambWS[i], ambTI[i], rho)
			if err != nil {
				return 0, err
			}
			if err := checkOperatingPoint(m.Performance.Name(), p, c, s, t.Index); err != nil {
				return 0, err
			}
			ambP[i] = p
			ambCT[i] = c
		}
	}

	for _, i := range ord.order {
		turbine := fw.farm.Turbines[i]

		sw.dws = sw.dws[:0]
		sw.dti = sw.dti[:0]
		for _, e := range ord.upstream[i] {
			src := WakeSource{
				WS: ws[e.source],
				TI: ti[e.source],
				CT: ct[e.source],
				D:  fw.farm.Turbines[e.source].Type.D,
			}
			frac := m.Deficit.Deficit(src, e.g)
			if math.IsNaN(frac) || frac < 0 || frac > 1 {
				return 0, &ModelContractError{Model: m.Deficit.Name(), Variable: "velocity deficit",
					Value: frac, State: s, Turbine: turbine.Index}
			}
			if frac > 0 {
				sw.dws = append(sw.dws, frac*src.WS)
			}
			if m.Turbulence != nil {
				add := m.Turbulence.TIAddition(src, e.g)
				if math.IsNaN(add) || add < 0 {
					return 0, &ModelContractError{Model: m.Turbulence.Name(), Variable: "TI addition",
						Value: add, State: s, Turbine: turbine.Index}
				}
				if add > 0 {
					sw.dti = append(sw.dti, add)
				}
			}
		}

		effWS := ambWS[i]
		if len(sw.dws) > 0 {
			effWS = m.Superposition.Deficit(ambWS[i], sw.dws)
			if math.IsNaN(effWS) || effWS < 0 || effWS > ambWS[i] {
				return 0, &ModelContractError{Model: m.Superposition.Name(), Variable: "effective wind speed",
					Value: effWS, State: s, Turbine: turbine.Index}
			}
		}
		effTI := ambTI[i]
		if len(sw.dti) > 0 {
			effTI = m.Superposition.Excess(ambTI[i], sw.dti)
			if math.IsNaN(effTI) || effTI < ambTI[i] {
				return 0, &ModelContractError{Model: m.Superposition.Name(), Variable: "effective turbulence intensity",
					Value: effTI, State: s, Turbine: turbine.Index}
			}
		}

		p, c, err := m.Performance.Performance(turbine.Type, effWS, effTI, rho)
		if err != nil {
			return 0, err
		}
		if err := checkOperatingPoint(m.Performance.Name(), p, c, s, turbine.Index); err != nil {
			return 0, err
		}

		if delta := math.Abs(effWS - ws[i]); delta > residual {
			residual = delta
		}
		ws[i] = effWS
		ti[i] = effTI
		power[i] = p
		ct[i] = c
	}
	return residual, nil
}

// checkOperatingPoint validates a performance model's output at the
// component boundary.
func checkOperatingPoint(model string, power, ct float64, state, turbine int) error {
	if math.IsNaN(power) || math.IsInf(power, 0) || power < 0 {
		return &ModelContractError{Model: model, Variable: "power",
			Value: power, State: state, Turbine: turbine}
	}
	if math.IsNaN(ct) || ct < 0 || ct > 1 {
		return &ModelContractError{Model: model, Variable: "thrust coefficient",
			Value: ct, State: state, Turbine: turbine}
	}
	return nil
}
