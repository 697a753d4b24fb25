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
	"math"
	"sort"
)

// WakeGeometry locates an evaluation point relative to a wake-casting
// rotor, in the rotor's wind-aligned frame.
type WakeGeometry struct {
	X float64 // downwind distance [m]; ≤ 0 means upstream or co-located
	Y float64 // crosswind offset [m]
	Z float64 // vertical offset from the source hub [m]
}

// WakeSource is the resolved operating state of the turbine casting a
// wake, the source strength seen by the deficit models.
type WakeSource struct {
	WS float64 // rotor-effective wind speed at the source [m/s]
	TI float64 // local turbulence intensity at the source [fraction]
	CT float64 // thrust coefficient
	D  float64 // rotor diameter [m]
}

// DeficitModel computes wind speed deficits caused by turbine wakes.
type DeficitModel interface {
	// Name returns the name this model is registered under.
	Name() string

	// Deficit returns the fractional wind speed deficit at geometry g
	// caused by source src, relative to the source's rotor-effective
	// wind speed. It must return 0 for g.X ≤ 0 (a turbine never wakes
	// itself or anything upstream of it) and for src.CT ≤ 0 (a parked
	// turbine casts no wake).
	Deficit(src WakeSource, g WakeGeometry) float64
}

// TurbulenceModel computes added turbulence intensity in turbine wakes.
type TurbulenceModel interface {
	Name() string

	// TIAddition returns the turbulence intensity added at geometry g
	// by source src, with the same zero conditions as
	// DeficitModel.Deficit.
	TIAddition(src WakeSource, g WakeGeometry) float64
}

// Superposition combines wake contributions from multiple upstream
// turbines into one net effect on an ambient value. The combination
// rule is a declared policy: different rules give materially different
// farm-level results. All rules must be order-independent, and a single
// contribution must combine to the same result as applying it directly.
type Superposition interface {
	Name() string

	// Deficit returns the net effective value of a variable reduced by
	// wakes (wind speed), given the ambient value and the absolute
	// contributions [same unit as ambient] of the individual wakes.
	Deficit(ambient float64, contributions []float64) float64

	// Excess returns the net effective value of a variable increased by
	// wakes (turbulence intensity), given the ambient value and the
	// absolute contributions of the individual wakes.
	Excess(ambient float64, contributions []float64) float64
}

// PerformanceModel converts local effective inflow into a turbine
// operating point. Implementations must be pure functions of their
// inputs plus the immutable turbine type.
type PerformanceModel interface {
	Name() string

	// Performance returns the power [W] and thrust coefficient of a
	// turbine of type t operating in inflow with wind speed ws [m/s],
	// turbulence intensity ti, and air density rho [kg/m³]. Outside
	// the cut-in/cut-out band both return values are zero.
	Performance(t *TurbineType, ws, ti, rho float64) (power, ct float64, err error)
}

// ctMax caps thrust coefficients slightly below unity to keep the
// momentum-theory expressions defined.
const ctMax = 0.9999

// InductionFactor returns the axial induction factor corresponding to
// thrust coefficient ct under actuator disk theory, a = (1-√(1-ct))/2.
// ct is clamped to [0, ctMax].
func InductionFactor(ct float64) float64 {
	if ct <= 0 {
		return 0
	}
	if ct > ctMax {
		ct = ctMax
	}
	return 0.5 * (1 - math.Sqrt(1-ct))
}

// WakeModel bundles the model variants one farm calculation uses.
type WakeModel struct {
	Deficit       DeficitModel
	Superposition Superposition
	Performance   PerformanceModel

	// Turbulence may be nil, in which case wakes do not modify
	// turbulence intensity.
	Turbulence TurbulenceModel
}

// Check returns an error if a required model is missing.
func (m *WakeModel) Check() error {
	if m == nil {
		return fmt.Errorf("farmwake: wake model is nil")
	}
	if m.Deficit == nil {
		return fmt.Errorf("farmwake: wake model has no deficit model")
	}
	if m.Superposition == nil {
		return fmt.Errorf("farmwake: wake model has no superposition rule")
	}
	if m.Performance == nil {
		return fmt.Errorf("farmwake: wake model has no performance model")
	}
	return nil
}

// Model registries. The science packages populate these from their
// init functions; after program startup the registries are read-only,
// so concurrent farm runs may share them freely.
var (
	deficitModels     = make(map[string]DeficitModel)
	turbulenceModels  = make(map[string]TurbulenceModel)
	superpositions    = make(map[string]Superposition)
	performanceModels = make(map[string]PerformanceModel)
)

// RegisterDeficitModel makes a deficit model available by name.
// It panics if the name is already taken.
func RegisterDeficitModel(m DeficitModel) {
	if _, ok := deficitModels[m.Name()]; ok {
		panic("farmwake: duplicate deficit model " + m.Name())
	}
	deficitModels[m.Name()] = m
}

// RegisterTurbulenceModel makes a turbulence model available by name.
func RegisterTurbulenceModel(m TurbulenceModel) {
	if _, ok := turbulenceModels[m.Name()]; ok {
		panic("farmwake: duplicate turbulence model " + m.Name())
	}
	turbulenceModels[m.Name()] = m
}

// RegisterSuperposition makes a superposition rule available by name.
func RegisterSuperposition(s Superposition) {
	if _, ok := superpositions[s.Name()]; ok {
		panic("farmwake: duplicate superposition rule " + s.Name())
	}
	superpositions[s.Name()] = s
}

// RegisterPerformanceModel makes a performance model available by name.
func RegisterPerformanceModel(m PerformanceModel) {
	if _, ok := performanceModels[m.Name()]; ok {
		panic("farmwake: duplicate performance model " + m.Name())
	}
	performanceModels[m.Name()] = m
}

// DeficitModelByName returns the registered deficit model with the
// given name, or an error listing the valid options.
func DeficitModelByName(name string) (DeficitModel, error) {
	m, ok := deficitModels[name]
	if !ok {
		return nil, fmt.Errorf("farmwake: no deficit model %q; valid options are %v", name, registeredNames(deficitModels))
	}
	return m, nil
}

// TurbulenceModelByName returns the registered turbulence model with
// the given name. The empty name returns nil: turbulence modeling is
// optional.
func TurbulenceModelByName(name string) (TurbulenceModel, error) {
	if name == "" {
		return nil, nil
	}
	m, ok := turbulenceModels[name]
	if !ok {
		return nil, fmt.Errorf("farmwake: no turbulence model %q; valid options are %v", name, registeredNames(turbulenceModels))
	}
	return m, nil
}

// SuperpositionByName returns the registered superposition rule with
// the given name, or an error listing the valid options.
func SuperpositionByName(name string) (Superposition, error) {
	s, ok := superpositions[name]
	if !ok {
		return nil, fmt.Errorf("farmwake: no superposition rule %q; valid options are %v", name, registeredNames(superpositions))
	}
	return s, nil
}

// PerformanceModelByName returns the registered performance model with
// the given name, or an error listing the valid options.
func PerformanceModelByName(name string) (PerformanceModel, error) {
	m, ok := performanceModels[name]
	if !ok {
		return nil, fmt.Errorf("farmwake: no performance model %q; valid options are %v", name, registeredNames(performanceModels))
	}
	return m, nil
}

func registeredNames[M any](reg map[string]M) []string {
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
