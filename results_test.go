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
	"testing"

	"github.com/ctessum/unit"
)

// resultsFixture runs a three-turbine row under two mirrored conditions
// with weights 1 and 3. The mirrored row produces identical farm totals
// in both states: 8³ + 7.2³ + 6.48³ waked, 3·8³ unwaked.
func resultsFixture(t *testing.T) *FarmWake {
	t.Helper()
	c := &Conditions{
		WD:     []float64{270, 90},
		WS:     []float64{8, 8},
		TI:     []float64{0.1, 0.1},
		Weight: []float64{1, 3},
	}
	return runRow(t, 3, c, testModel())
}

const (
	wakedFarmPower   = 512 + 373.248 + 272.097792 // 8³ + 7.2³ + 6.48³
	ambientFarmPower = 3 * 512.0
)

func TestFarmPower(t *testing.T) {
	fw := resultsFixture(t)
	for s := 0; s < 2; s++ {
		p, err := fw.FarmPower(s)
		if err != nil {
			t.Fatal(err)
		}
		if different(p.Value(), wakedFarmPower, 1e-9) {
			t.Errorf("state %d farm power: got %g, want %g", s, p.Value(), wakedFarmPower)
		}
		if err := p.Check(unit.Watt); err != nil {
			t.Errorf("state %d farm power units: %v", s, err)
		}
	}
	amb, err := fw.AmbientFarmPower(0)
	if err != nil {
		t.Fatal(err)
	}
	if different(amb.Value(), ambientFarmPower, 1e-12) {
		t.Errorf("ambient farm power: got %g, want %g", amb.Value(), ambientFarmPower)
	}

	if _, err := fw.FarmPower(2); err == nil {
		t.Error("expected an error for an out-of-range state")
	}
}

func TestMeanFarmPowerAndEfficiency(t *testing.T) {
	fw := resultsFixture(t)
	mean, err := fw.MeanFarmPower()
	if err != nil {
		t.Fatal(err)
	}
	// Both states produce the same total, so the weighting is invisible
	// here; it is exercised by TestTurbinePower.
	if different(mean.Value(), wakedFarmPower, 1e-9) {
		t.Errorf("mean farm power: got %g, want %g", mean.Value(), wakedFarmPower)
	}

	eff, err := fw.Efficiency()
	if err != nil {
		t.Fatal(err)
	}
	if different(eff, wakedFarmPower/ambientFarmPower, 1e-9) {
		t.Errorf("efficiency: got %g, want %g", eff, wakedFarmPower/ambientFarmPower)
	}
	if eff >= 1 {
		t.Errorf("waked farm efficiency should be below one, got %g", eff)
	}
}

func TestAnnualEnergy(t *testing.T) {
	fw := resultsFixture(t)
	e, err := fw.AnnualEnergy()
	if err != nil {
		t.Fatal(err)
	}
	want := wakedFarmPower * 8760 * 3600
	if different(e.Value(), want, 1e-9) {
		t.Errorf("annual energy: got %g, want %g", e.Value(), want)
	}
	// Power times time is energy.
	if err := e.Check(unit.Joule); err != nil {
		t.Errorf("annual energy units: %v", err)
	}
}

func TestTurbinePower(t *testing.T) {
	fw := resultsFixture(t)
	got, err := fw.TurbinePower()
	if err != nil {
		t.Fatal(err)
	}
	// Turbine 0 is unwaked in state 0 (weight 1) and double-waked in
	// state 1 (weight 3); turbine 1 is single-waked in both.
	want := []float64{
		(1*512 + 3*272.097792) / 4,
		373.248,
		(1*272.097792 + 3*512) / 4,
	}
	for i, w := range want {
		if different(got[i], w, 1e-9) {
			t.Errorf("turbine %d mean power: got %g, want %g", i, got[i], w)
		}
	}
}

func TestResultsCopies(t *testing.T) {
	fw := resultsFixture(t)
	res, err := fw.Results(WS, P)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d variables, want 2", len(res))
	}
	// Mutating the returned arrays must not touch the simulation state.
	res[WS].Set(0, 0, 0)
	if got := fw.Grid().Get(WS, 0, 0); got != 8 {
		t.Errorf("results alias the state grid: got %g, want 8", got)
	}

	if _, err := fw.Results("NOPE"); err == nil {
		t.Error("expected an error for an unknown variable")
	}

	all, err := fw.Results()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(FarmVars) {
		t.Errorf("got %d variables, want all %d", len(all), len(FarmVars))
	}
}

func TestResultsBeforeRun(t *testing.T) {
	fw := &FarmWake{}
	if _, err := fw.Results(); err == nil {
		t.Error("expected an error before the simulation is loaded")
	}
	if _, err := fw.MeanFarmPower(); err == nil {
		t.Error("expected an error before the simulation has run")
	}
}
