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
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/ctessum/requestcache"
)

// minDownwindSeparation [m] is the smallest downwind distance that
// creates a wake dependency. Pairs separated by less than this along
// the wind axis (including perpendicular and co-located pairs) have no
// causal edge in either direction.
const minDownwindSeparation = 1e-6

// DefaultDirectionBucket [degrees] quantizes wind directions for
// dependency-order caching: conditions whose directions fall in the
// same bucket share one resolved order.
const DefaultDirectionBucket = 0.5

// wakeEdge is one causal relation: turbine source wakes the turbine
// whose upstream list holds the edge, at the stored evaluation
// geometry. Edges are valid only for the wind direction they were
// resolved for.
type wakeEdge struct {
	source int
	g      WakeGeometry
}

// downwindOrder is the dependency structure for one wind direction: a
// topological evaluation order (upstream turbines first) and, per
// turbine, the wake edges arriving from upstream.
type downwindOrder struct {
	direction float64 // quantized direction [degrees]

	// order holds farm list positions sorted from upstream to
	// downstream; ties in downwind coordinate are broken by turbine
	// index so the order is deterministic.
	order []int

	// upstream[i] lists the edges affecting the turbine at farm list
	// position i, sources ordered upstream-first.
	upstream [][]wakeEdge
}

// flowVector returns the unit vector pointing downwind for a
// meteorological wind direction (degrees, direction the wind comes
// from, clockwise from north).
func flowVector(wd float64) (x, y float64) {
	rad := wd * math.Pi / 180
	return -math.Sin(rad), -math.Cos(rad)
}

// quantizeDirection maps a direction onto the center of its bucket,
// normalized to [0, 360).
func quantizeDirection(wd, bucket float64) float64 {
	wd = math.Mod(wd, 360)
	if wd < 0 {
		wd += 360
	}
	q := math.Round(wd/bucket) * bucket
	return math.Mod(q, 360)
}

// resolveOrder computes the downwind dependency order of farm for one
// wind direction. The order is a valid linearization of the acyclic
// "who wakes whom" relation: every turbine appears after all turbines
// that wake it.
func resolveOrder(farm *Farm, wd float64) (*downwindOrder, error) {
	if math.IsNaN(wd) || math.IsInf(wd, 0) {
		return nil, invalidGeometry("non-finite wind direction %g", wd)
	}
	fx, fy := flowVector(wd)
	// Perpendicular (crosswind) axis, flow rotated 90° counterclockwise.
	px, py := -fy, fx

	n := len(farm.Turbines)
	down := make([]float64, n)  // downwind coordinate of each turbine
	cross := make([]float64, n) // crosswind coordinate of each turbine
	for i, t := range farm.Turbines {
		down[i] = t.Pos.X*fx + t.Pos.Y*fy
		cross[i] = t.Pos.X*px + t.Pos.Y*py
	}

	o := &downwindOrder{
		direction: wd,
		order:     make([]int, n),
		upstream:  make([][]wakeEdge, n),
	}
	for i := range o.order {
		o.order[i] = i
	}
	sort.SliceStable(o.order, func(a, b int) bool {
		ia, ib := o.order[a], o.order[b]
		if down[ia] != down[ib] {
			return down[ia] < down[ib]
		}
		return farm.Turbines[ia].Index < farm.Turbines[ib].Index
	})

	for a := 0; a < n; a++ {
		j := o.order[a]
		hubJ := farm.Turbines[j].Hub()
		for b := 0; b < a; b++ {
			i := o.order[b]
			dx := down[j] - down[i]
			if dx <= minDownwindSeparation {
				continue
			}
			o.upstream[j] = append(o.upstream[j], wakeEdge{
				source: i,
				g: WakeGeometry{
					X: dx,
					Y: cross[j] - cross[i],
					Z: hubJ - farm.Turbines[i].Hub(),
				},
			})
		}
	}
	return o, nil
}

// ResolveWakeOrder returns an initialization function that resolves the
// wake dependency order for every condition. Directions are quantized
// to the given bucket width [degrees] (DefaultDirectionBucket if
// bucket ≤ 0) and the per-direction resolution is deduplicated and
// cached, so condition batches dominated by a few directions resolve
// their dependency topology once per direction rather than once per
// condition.
func ResolveWakeOrder(bucket float64) FarmManipulator {
	return func(fw *FarmWake) error {
		if err := fw.loaded(); err != nil {
			return err
		}
		if bucket <= 0 {
			bucket = DefaultDirectionBucket
		}
		cache := requestcache.NewCache(
			func(ctx context.Context, payload interface{}) (interface{}, error) {
				return resolveOrder(fw.farm, payload.(float64))
			},
			runtime.GOMAXPROCS(0),
			requestcache.Deduplicate(),
			requestcache.Memory(720),
		)
		fw.orders = make([]*downwindOrder, fw.conditions.Len())
		for s := 0; s < fw.conditions.Len(); s++ {
			wd := quantizeDirection(fw.conditions.WD[s], bucket)
			req := cache.NewRequest(context.Background(), wd, fmt.Sprintf("wd_%g", wd))
			result, err := req.Result()
			if err != nil {
				return err
			}
			fw.orders[s] = result.(*downwindOrder)
		}
		return nil
	}
}
