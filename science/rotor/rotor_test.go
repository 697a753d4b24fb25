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

package rotor

import (
	"math"
	"testing"

	"github.com/spatialmodel/farmwake"
)

func testType() *farmwake.TurbineType {
	return &farmwake.TurbineType{
		Name:       "test-5MW",
		D:          126,
		H:          90,
		CutIn:      3,
		CutOut:     25,
		RefDensity: 1.225,
		Speeds:     []float64{3, 10, 15, 25},
		Power:      []float64{0, 2e6, 5e6, 5e6},
		CT:         []float64{0.8, 0.8, 0.6, 0.3},
	}
}

func TestPCtCurveInterpolation(t *testing.T) {
	typ := testType()
	var m PCtCurve

	power, ct, err := m.Performance(typ, 6.5, 0.1, 1.225)
	if err != nil {
		t.Fatal(err)
	}
	if different(power, 1e6, 1e-12) {
		t.Errorf("power at 6.5 m/s: got %g, want 1e6", power)
	}
	if different(ct, 0.8, 1e-12) {
		t.Errorf("ct at 6.5 m/s: got %g, want 0.8", ct)
	}

	// Curve knots evaluate exactly.
	power, ct, err = m.Performance(typ, 15, 0.1, 1.225)
	if err != nil {
		t.Fatal(err)
	}
	if different(power, 5e6, 1e-12) || different(ct, 0.6, 1e-12) {
		t.Errorf("at knot 15 m/s: got power %g, ct %g; want 5e6, 0.6", power, ct)
	}
}

func TestPCtCurveOperatingBand(t *testing.T) {
	typ := testType()
	var m PCtCurve
	for _, ws := range []float64{0, 2.9, 25.1, 40} {
		power, ct, err := m.Performance(typ, ws, 0.1, 1.225)
		if err != nil {
			t.Fatal(err)
		}
		if power != 0 || ct != 0 {
			t.Errorf("at %g m/s outside operating band: got power %g, ct %g; want 0, 0", ws, power, ct)
		}
	}
	// The band edges operate.
	if power, _, _ := m.Performance(typ, 25, 0.1, 1.225); power != 5e6 {
		t.Errorf("at cut-out: got power %g, want 5e6", power)
	}
}

func TestPCtCurveDensityCorrection(t *testing.T) {
	typ := testType()
	var m PCtCurve
	// At eight times the reference density the equivalent wind speed
	// doubles: 5 m/s behaves like 10 m/s.
	power, _, err := m.Performance(typ, 5, 0.1, 8*1.225)
	if err != nil {
		t.Fatal(err)
	}
	if different(power, 2e6, 1e-9) {
		t.Errorf("density-corrected power: got %g, want 2e6", power)
	}
}

func TestPCtCurveCTClamp(t *testing.T) {
	typ := testType()
	typ.CT = []float64{1.2, 1.2, 1.2, 1.2}
	var m PCtCurve
	_, ct, err := m.Performance(typ, 10, 0.1, 1.225)
	if err != nil {
		t.Fatal(err)
	}
	if ct != 0.9999 {
		t.Errorf("ct not clamped: got %g, want 0.9999", ct)
	}
}

func TestPCtCurveNoCurves(t *testing.T) {
	var m PCtCurve
	if _, _, err := m.Performance(&farmwake.TurbineType{D: 100}, 10, 0.1, 1.225); err == nil {
		t.Error("expected an error for a turbine type without curves")
	}
}

func TestActuatorDiskBetz(t *testing.T) {
	typ := &farmwake.TurbineType{Name: "disk", D: 100, H: 100}
	var m ActuatorDisk // defaults to a = 1/3

	power, ct, err := m.Performance(typ, 10, 0.1, 1.225)
	if err != nil {
		t.Fatal(err)
	}
	if different(ct, 8./9., 1e-12) {
		t.Errorf("Betz-optimal ct: got %g, want %g", ct, 8./9.)
	}
	area := math.Pi * 100 * 100 / 4
	want := 0.5 * 1.225 * area * 16. / 27. * 1000
	if different(power, want, 1e-12) {
		t.Errorf("Betz-optimal power: got %g, want %g", power, want)
	}
}

func TestActuatorDiskRatedCap(t *testing.T) {
	typ := &farmwake.TurbineType{Name: "disk", D: 100, H: 100, RatedPower: 1e6}
	var m ActuatorDisk
	power, _, err := m.Performance(typ, 10, 0.1, 1.225)
	if err != nil {
		t.Fatal(err)
	}
	if power != 1e6 {
		t.Errorf("power not capped at rated: got %g, want 1e6", power)
	}
}

func TestActuatorDiskDefaults(t *testing.T) {
	typ := &farmwake.TurbineType{Name: "disk", D: 100, H: 100, CutIn: 3}
	var m ActuatorDisk
	if power, ct, _ := m.Performance(typ, 2, 0.1, 1.225); power != 0 || ct != 0 {
		t.Errorf("below cut-in: got power %g, ct %g; want 0, 0", power, ct)
	}
	// A non-positive density falls back to the standard atmosphere.
	p0, _, _ := m.Performance(typ, 10, 0.1, 0)
	p1, _, _ := m.Performance(typ, 10, 0.1, farmwake.DefaultAirDensity)
	if p0 != p1 {
		t.Errorf("default density power %g != explicit %g", p0, p1)
	}
}

func TestDerate(t *testing.T) {
	typ := &farmwake.TurbineType{Name: "disk", D: 100, H: 100, RatedPower: 2e6}
	m := Derate{Model: ActuatorDisk{}, Fraction: 0.5}

	power, ct, err := m.Performance(typ, 10, 0.1, 1.225)
	if err != nil {
		t.Fatal(err)
	}
	if power != 1e6 {
		t.Errorf("curtailed power: got %g, want 1e6", power)
	}
	// Thrust follows the loading down.
	full, fullCT, _ := ActuatorDisk{}.Performance(typ, 10, 0.1, 1.225)
	wantCT := fullCT * math.Pow(1e6/full, 2./3.)
	if different(ct, wantCT, 1e-12) {
		t.Errorf("curtailed ct: got %g, want %g", ct, wantCT)
	}
	if ct >= fullCT {
		t.Errorf("curtailed ct %g should be below uncurtailed %g", ct, fullCT)
	}

	// Below the cap the wrapped model passes through unchanged.
	lowPower, lowCT, err := m.Performance(typ, 4, 0.1, 1.225)
	if err != nil {
		t.Fatal(err)
	}
	wrappedPower, wrappedCT, _ := ActuatorDisk{}.Performance(typ, 4, 0.1, 1.225)
	if lowPower != wrappedPower || lowCT != wrappedCT {
		t.Errorf("pass-through: got (%g, %g), want (%g, %g)", lowPower, lowCT, wrappedPower, wrappedCT)
	}
}

func TestDerateErrors(t *testing.T) {
	typ := &farmwake.TurbineType{Name: "disk", D: 100, H: 100}
	if _, _, err := (Derate{Fraction: 0.5}).Performance(typ, 10, 0.1, 1.225); err == nil {
		t.Error("expected an error for a derate without a wrapped model")
	}
	for _, frac := range []float64{0, -0.5, 1.1} {
		m := Derate{Model: ActuatorDisk{}, Fraction: frac}
		if _, _, err := m.Performance(typ, 10, 0.1, 1.225); err == nil {
			t.Errorf("expected an error for derate fraction %g", frac)
		}
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
