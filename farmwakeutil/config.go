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

package farmwakeutil

import (
	"fmt"
	"os"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/farmwake"
	"github.com/spatialmodel/farmwake/science/wakemodel"
	"github.com/spf13/viper"
)

// TurbineTypeFromConfig creates the turbine hardware description from
// the Turbine.* configuration options, reading the performance curves
// from Turbine.CurveFile if one is given.
func TurbineTypeFromConfig(cfg *viper.Viper) (*farmwake.TurbineType, error) {
	typ := &farmwake.TurbineType{
		Name:       cfg.GetString("Turbine.Name"),
		D:          cfg.GetFloat64("Turbine.Diameter"),
		H:          cfg.GetFloat64("Turbine.HubHeight"),
		CutIn:      cfg.GetFloat64("Turbine.CutIn"),
		CutOut:     cfg.GetFloat64("Turbine.CutOut"),
		RatedPower: cfg.GetFloat64("Turbine.RatedPower"),
		RefDensity: cfg.GetFloat64("Turbine.RefDensity"),
	}
	if curveFile := os.ExpandEnv(cfg.GetString("Turbine.CurveFile")); curveFile != "" {
		if err := ReadCurve(curveFile, typ); err != nil {
			return nil, err
		}
	}
	return typ, nil
}

// BuildWakeModel assembles the wake model named by the Model.*
// configuration options from the registered model variants.
func BuildWakeModel(cfg *viper.Viper) (*farmwake.WakeModel, error) {
	deficit, err := farmwake.DeficitModelByName(cfg.GetString("Model.Deficit"))
	if err != nil {
		return nil, err
	}
	superposition, err := farmwake.SuperpositionByName(cfg.GetString("Model.Superposition"))
	if err != nil {
		return nil, err
	}
	turbulence, err := farmwake.TurbulenceModelByName(cfg.GetString("Model.Turbulence"))
	if err != nil {
		return nil, err
	}
	performance, err := farmwake.PerformanceModelByName(cfg.GetString("Model.Performance"))
	if err != nil {
		return nil, err
	}

	k := cfg.GetFloat64("Model.WakeExpansion")
	kti := cfg.GetFloat64("Model.TIWakeExpansion")
	if k != 0 || kti != 0 {
		switch d := deficit.(type) {
		case wakemodel.Jensen:
			d.K, d.KTI = k, kti
			deficit = d
		case wakemodel.Bastankhah:
			d.K, d.KTI = k, kti
			deficit = d
		default:
			return nil, fmt.Errorf("farmwake: deficit model %q does not take wake expansion overrides", deficit.Name())
		}
		if t, ok := turbulence.(wakemodel.CrespoHernandez); ok {
			t.K, t.KTI = k, kti
			turbulence = t
		}
	}

	return &farmwake.WakeModel{
		Deficit:       deficit,
		Superposition: superposition,
		Turbulence:    turbulence,
		Performance:   performance,
	}, nil
}

// newSimulation assembles a simulation for the given inputs. A positive
// tolerance selects fixed-point iteration; otherwise the simulation
// finishes after one downwind sweep.
func newSimulation(farm *farmwake.Farm, c *farmwake.Conditions, m *farmwake.WakeModel,
	tolerance float64, maxSweeps int, directionBucket float64) *farmwake.FarmWake {
	fw := &farmwake.FarmWake{
		InitFuncs: []farmwake.FarmManipulator{
			farmwake.Load(farm, c),
			farmwake.ResolveWakeOrder(directionBucket),
		},
		RunFuncs: []farmwake.FarmManipulator{
			farmwake.WakeCalculation(m),
		},
	}
	if tolerance > 0 {
		fw.RunFuncs = append(fw.RunFuncs,
			farmwake.Log(os.Stdout),
			farmwake.FixedPoint(tolerance, maxSweeps))
	} else {
		fw.RunFuncs = append(fw.RunFuncs, farmwake.SinglePass())
	}
	return fw
}

// Run performs a farm simulation as configured by the run command and
// writes the per-turbine results to outputFile.
func Run(log *logrus.Logger, layoutFile, conditionsFile, outputFile string, outputVars []string,
	typ *farmwake.TurbineType, m *farmwake.WakeModel,
	tolerance float64, maxSweeps int, directionBucket float64) error {

	farm, err := ReadLayout(os.ExpandEnv(layoutFile), typ)
	if err != nil {
		return err
	}
	c, err := ReadConditions(os.ExpandEnv(conditionsFile))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"turbines":   len(farm.Turbines),
		"conditions": c.Len(),
		"deficit":    m.Deficit.Name(),
	}).Info("running farm simulation")

	fw := newSimulation(farm, c, m, tolerance, maxSweeps, directionBucket)
	if err := fw.Init(); err != nil {
		return err
	}
	if err := fw.Run(); err != nil {
		return err
	}
	if err := fw.Cleanup(); err != nil {
		return err
	}

	f, err := os.Create(os.ExpandEnv(outputFile))
	if err != nil {
		return fmt.Errorf("farmwake: creating output file: %v", err)
	}
	defer f.Close()
	if err := WriteResults(f, fw, outputVars); err != nil {
		return err
	}

	eff, err := fw.Efficiency()
	if err != nil {
		return err
	}
	mean, err := fw.MeanFarmPower()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"meanFarmPowerMW": mean.Value() / 1e6,
		"efficiency":      eff,
		"sweeps":          fw.Sweeps(),
		"output":          outputFile,
	}).Info("farm simulation finished")
	return nil
}

// Flow performs a farm simulation and samples the resolved flow field
// for one wind condition on a horizontal plane covering the farm,
// writing the samples to outputFile.
func Flow(log *logrus.Logger, layoutFile, conditionsFile, outputFile, varName string,
	state int, height float64, nx, ny int, margin float64,
	typ *farmwake.TurbineType, m *farmwake.WakeModel,
	tolerance float64, maxSweeps int, directionBucket float64) error {

	farm, err := ReadLayout(os.ExpandEnv(layoutFile), typ)
	if err != nil {
		return err
	}
	c, err := ReadConditions(os.ExpandEnv(conditionsFile))
	if err != nil {
		return err
	}

	fw := newSimulation(farm, c, m, tolerance, maxSweeps, directionBucket)
	if err := fw.Init(); err != nil {
		return err
	}
	if err := fw.Run(); err != nil {
		return err
	}
	if err := fw.Cleanup(); err != nil {
		return err
	}

	if height <= 0 {
		height = farm.Turbines[0].Hub()
	}
	bounds := farmBounds(farm, margin)
	log.WithFields(logrus.Fields{
		"variable": varName,
		"state":    state,
		"height":   height,
		"nx":       nx,
		"ny":       ny,
	}).Info("sampling flow field")

	slice, err := fw.HorizontalSlice(m, varName, state, height, bounds, nx, ny)
	if err != nil {
		return err
	}

	f, err := os.Create(os.ExpandEnv(outputFile))
	if err != nil {
		return fmt.Errorf("farmwake: creating output file: %v", err)
	}
	defer f.Close()
	return WriteSlice(f, slice, bounds, varName)
}

// farmBounds returns the bounding box of the turbine positions grown by
// margin meters on every side.
func farmBounds(farm *farmwake.Farm, margin float64) *geom.Bounds {
	b := geom.NewBounds()
	for _, t := range farm.Turbines {
		b.Extend(t.Pos.Bounds())
	}
	b.Min.X -= margin
	b.Min.Y -= margin
	b.Max.X += margin
	b.Max.Y += margin
	return b
}
