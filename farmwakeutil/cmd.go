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

// Package farmwakeutil holds the configuration surface and input/output
// plumbing for the farmwake command-line interface.
package farmwakeutil

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/farmwake"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	// Register the shipped model variants.
	_ "github.com/spatialmodel/farmwake/science/rotor"
	_ "github.com/spatialmodel/farmwake/science/superpos"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to FarmWake.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LayoutFile",
			usage: `
              LayoutFile is the path to the CSV file holding the farm layout:
              one row per turbine with columns x and y (farm coordinates, in
              meters) and optionally index and hub_height.`,
			defaultVal: "layout.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "ConditionsFile",
			usage: `
              ConditionsFile is the path to the CSV file holding the ambient
              wind conditions to evaluate: one row per condition with columns
              wd (degrees), ws (m/s), and ti (fraction), and optionally rho
              (kg/m³) and weight.`,
			defaultVal: "conditions.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of the CSV file the per-turbine results
              are written to.`,
			defaultVal: "results.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables lists the result variables to include in the
              output file, in addition to the state and turbine indices.`,
			defaultVal: []string{farmwake.WS, farmwake.TI, farmwake.P, farmwake.CT},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Turbine.Name",
			usage: `
              Turbine.Name is the name of the turbine model installed in
              the farm.`,
			defaultVal: "generic-5MW",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Turbine.Diameter",
			usage: `
              Turbine.Diameter is the rotor diameter in meters.`,
			defaultVal: 126.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Turbine.HubHeight",
			usage: `
              Turbine.HubHeight is the hub height in meters.`,
			defaultVal: 90.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Turbine.CutIn",
			usage: `
              Turbine.CutIn is the cut-in wind speed in m/s. Below it the
              turbine produces no power and casts no wake.`,
			defaultVal: 3.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Turbine.CutOut",
			usage: `
              Turbine.CutOut is the cut-out wind speed in m/s. Above it the
              turbine shuts down. Zero means no cut-out.`,
			defaultVal: 25.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Turbine.RatedPower",
			usage: `
              Turbine.RatedPower is the nameplate capacity in watts. Zero
              means the maximum of the power curve is used where a rated
              value is needed.`,
			defaultVal: 5.0e6,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Turbine.RefDensity",
			usage: `
              Turbine.RefDensity is the air density the performance curves
              were measured at, in kg/m³.`,
			defaultVal: farmwake.DefaultAirDensity,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Turbine.CurveFile",
			usage: `
              Turbine.CurveFile is the path to the CSV file holding the
              turbine performance curves, with columns ws (m/s), power (W),
              and ct. It may be empty when the performance model does not
              use installed curves (e.g. actuator_disk).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Model.Deficit",
			usage: `
              Model.Deficit names the wind speed deficit model to use.`,
			defaultVal: "bastankhah",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Model.Superposition",
			usage: `
              Model.Superposition names the rule for combining the wake
              contributions of multiple upstream turbines.`,
			defaultVal: "quadratic",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Model.Turbulence",
			usage: `
              Model.Turbulence names the wake-added turbulence model. The
              empty string disables turbulence modeling.`,
			defaultVal: "crespo_hernandez",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Model.Performance",
			usage: `
              Model.Performance names the model converting local effective
              inflow into turbine power and thrust coefficient.`,
			defaultVal: "p_ct_curve",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Model.WakeExpansion",
			usage: `
              Model.WakeExpansion overrides the wake expansion coefficient k
              of the deficit and turbulence models. Zero keeps the model
              defaults.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Model.TIWakeExpansion",
			usage: `
              Model.TIWakeExpansion overrides the turbulence sensitivity of
              the wake expansion: the effective expansion coefficient is
              k + kti·TI at the wake source. Zero keeps the model defaults.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Convergence.Tolerance",
			usage: `
              Convergence.Tolerance switches the simulation from the default
              single downwind sweep to fixed-point iteration: sweeps repeat
              until no turbine's effective wind speed changes by more than
              this many m/s. Zero keeps the single-sweep default, which is
              exact for all shipped model variants.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Convergence.MaxSweeps",
			usage: `
              Convergence.MaxSweeps bounds the number of fixed-point sweeps.
              It is only used when Convergence.Tolerance is positive.`,
			defaultVal: 20,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "DirectionBucket",
			usage: `
              DirectionBucket is the wind direction quantization width in
              degrees used when caching resolved downwind orders: conditions
              whose directions fall in the same bucket share an order.`,
			defaultVal: farmwake.DefaultDirectionBucket,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), flowCmd.Flags()},
		},
		{
			name: "Flow.Variable",
			usage: `
              Flow.Variable names the flow variable to sample: WS or TI.`,
			defaultVal: farmwake.WS,
			flagsets:   []*pflag.FlagSet{flowCmd.Flags()},
		},
		{
			name: "Flow.State",
			usage: `
              Flow.State is the index of the wind condition to sample the
              flow field for.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{flowCmd.Flags()},
		},
		{
			name: "Flow.Height",
			usage: `
              Flow.Height is the height above ground of the sampling plane in
              meters. Zero means the turbine hub height.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{flowCmd.Flags()},
		},
		{
			name: "Flow.Nx",
			usage: `
              Flow.Nx is the number of west-east sample points.`,
			defaultVal: 200,
			flagsets:   []*pflag.FlagSet{flowCmd.Flags()},
		},
		{
			name: "Flow.Ny",
			usage: `
              Flow.Ny is the number of south-north sample points.`,
			defaultVal: 200,
			flagsets:   []*pflag.FlagSet{flowCmd.Flags()},
		},
		{
			name: "Flow.Margin",
			usage: `
              Flow.Margin extends the sampling plane this many meters beyond
              the farm's bounding box on every side.`,
			defaultVal: 500.0,
			flagsets:   []*pflag.FlagSet{flowCmd.Flags()},
		},
		{
			name: "Flow.OutputFile",
			usage: `
              Flow.OutputFile is the path of the CSV file the sampled flow
              field is written to, one row per sample point with columns
              x, y, and the sampled variable.`,
			defaultVal: "flow.csv",
			flagsets:   []*pflag.FlagSet{flowCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("FARMWAKE")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(flowCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("farmwake: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "farmwake",
	Short: "An engineering wind-farm wake model.",
	Long: `FarmWake computes the aerodynamic interaction of the turbines inside a
wind farm: for a batch of ambient wind conditions it resolves every
turbine's waked inflow, power, and thrust coefficient.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'FARMWAKE_var' where 'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of FarmWake.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("FarmWake v%s\n", farmwake.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd runs a farm simulation and writes the per-turbine results.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a farm simulation.",
	Long: `run evaluates the farm specified by LayoutFile under the ambient wind
conditions in ConditionsFile and writes the resulting per-turbine state
to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputVars, err := cast.ToStringSliceE(Cfg.Get("OutputVariables"))
		if err != nil {
			return fmt.Errorf("farmwake: reading 'OutputVariables': %v", err)
		}
		typ, err := TurbineTypeFromConfig(Cfg)
		if err != nil {
			return err
		}
		m, err := BuildWakeModel(Cfg)
		if err != nil {
			return err
		}
		return Run(
			logrus.StandardLogger(),
			Cfg.GetString("LayoutFile"),
			Cfg.GetString("ConditionsFile"),
			Cfg.GetString("OutputFile"),
			outputVars,
			typ, m,
			Cfg.GetFloat64("Convergence.Tolerance"),
			Cfg.GetInt("Convergence.MaxSweeps"),
			Cfg.GetFloat64("DirectionBucket"),
		)
	},
	DisableAutoGenTag: true,
}

// flowCmd samples the resolved flow field on a horizontal plane.
var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Sample the resolved flow field.",
	Long: `flow runs a farm simulation and samples the resolved flow field for one
wind condition on a regular horizontal grid covering the farm, writing
the samples to Flow.OutputFile for visualization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := TurbineTypeFromConfig(Cfg)
		if err != nil {
			return err
		}
		m, err := BuildWakeModel(Cfg)
		if err != nil {
			return err
		}
		return Flow(
			logrus.StandardLogger(),
			Cfg.GetString("LayoutFile"),
			Cfg.GetString("ConditionsFile"),
			Cfg.GetString("Flow.OutputFile"),
			Cfg.GetString("Flow.Variable"),
			Cfg.GetInt("Flow.State"),
			Cfg.GetFloat64("Flow.Height"),
			Cfg.GetInt("Flow.Nx"),
			Cfg.GetInt("Flow.Ny"),
			Cfg.GetFloat64("Flow.Margin"),
			typ, m,
			Cfg.GetFloat64("Convergence.Tolerance"),
			Cfg.GetInt("Convergence.MaxSweeps"),
			Cfg.GetFloat64("DirectionBucket"),
		)
	},
	DisableAutoGenTag: true,
}
