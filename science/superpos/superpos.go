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

// Package superpos contains wake superposition rules for the FarmWake
// wind-farm engine. Each rule is a declared policy for combining the
// contributions of multiple overlapping wakes into one net effect on an
// ambient value; different rules give materially different farm-level
// results, so the choice is part of the model configuration rather than
// an implementation detail. All rules are order-independent, and a
// single contribution combines to the same result as applying it
// directly.
package superpos

import (
	"math"

	"github.com/spatialmodel/farmwake"
)

func init() {
	farmwake.RegisterSuperposition(Linear{})
	farmwake.RegisterSuperposition(Quadratic{})
	farmwake.RegisterSuperposition(Max{})
	farmwake.RegisterSuperposition(Product{})
}

// Linear sums the contributions. The effective wind speed is clamped at
// zero: with many strong overlapping wakes the plain sum can exceed the
// ambient speed, and a negative speed is not physical.
type Linear struct{}

// Name returns "linear".
func (Linear) Name() string { return "linear" }

// Deficit returns ambient minus the sum of the contributions, at least zero.
func (Linear) Deficit(ambient float64, contributions []float64) float64 {
	eff := ambient - sum(contributions)
	if eff < 0 {
		return 0
	}
	return eff
}

// Excess returns ambient plus the sum of the contributions.
func (Linear) Excess(ambient float64, contributions []float64) float64 {
	return ambient + sum(contributions)
}

// Quadratic combines the contributions as the root of the sum of their
// squares. The effective wind speed is clamped at zero, as for Linear.
type Quadratic struct{}

// Name returns "quadratic".
func (Quadratic) Name() string { return "quadratic" }

// Deficit returns ambient minus the root-sum-square of the
// contributions, at least zero.
func (Quadratic) Deficit(ambient float64, contributions []float64) float64 {
	eff := ambient - math.Sqrt(sumSquares(contributions))
	if eff < 0 {
		return 0
	}
	return eff
}

// Excess returns the root of the squared ambient value plus the sum of
// the squared contributions.
func (Quadratic) Excess(ambient float64, contributions []float64) float64 {
	return math.Sqrt(ambient*ambient + sumSquares(contributions))
}

// Max applies only the strongest contribution, ignoring the others.
// No clamping is applied: a single wake contribution is bounded by its
// source's wind speed, which the deficits already keep below ambient,
// so the result cannot go negative for conforming deficit models.
type Max struct{}

// Name returns "max".
func (Max) Name() string { return "max" }

// Deficit returns ambient minus the largest contribution.
func (Max) Deficit(ambient float64, contributions []float64) float64 {
	return ambient - max(contributions)
}

// Excess returns ambient plus the largest contribution.
func (Max) Excess(ambient float64, contributions []float64) float64 {
	return ambient + max(contributions)
}

// Product combines the contributions multiplicatively: each wake scales
// the ambient value by its own relative factor. The result is
// intrinsically non-negative, so no clamping is involved.
type Product struct{}

// Name returns "product".
func (Product) Name() string { return "product" }

// Deficit returns ambient times the product of (1 - cᵢ/ambient) over
// the contributions, with factors floored at zero.
func (Product) Deficit(ambient float64, contributions []float64) float64 {
	if ambient <= 0 {
		return 0
	}
	factor := 1.
	for _, c := range contributions {
		f := 1 - c/ambient
		if f < 0 {
			f = 0
		}
		factor *= f
	}
	return ambient * factor
}

// Excess returns ambient times the product of (1 + cᵢ/ambient) over
// the contributions.
func (Product) Excess(ambient float64, contributions []float64) float64 {
	if ambient <= 0 {
		return sum(contributions)
	}
	factor := 1.
	for _, c := range contributions {
		factor *= 1 + c/ambient
	}
	return ambient * factor
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func sumSquares(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v * v
	}
	return s
}

func max(vals []float64) float64 {
	var m float64
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
