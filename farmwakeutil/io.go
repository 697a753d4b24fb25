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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/farmwake"
	"gonum.org/v1/gonum/mat"
)

// csvTable is a parsed CSV file with named columns.
type csvTable struct {
	filename string
	columns  map[string]int
	rows     [][]string
}

func readCSVTable(filename string) (*csvTable, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("farmwake: opening %s: %v", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("farmwake: reading %s: %v", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("farmwake: %s has no data rows", filename)
	}
	t := &csvTable{
		filename: filename,
		columns:  make(map[string]int, len(records[0])),
		rows:     records[1:],
	}
	for i, name := range records[0] {
		t.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return t, nil
}

// column returns the index of the named column, or -1 if the file does
// not have it.
func (t *csvTable) column(name string) int {
	if i, ok := t.columns[name]; ok {
		return i
	}
	return -1
}

// float parses the value in the named column of row i. The column must
// exist.
func (t *csvTable) float(i int, name string) (float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return 0, fmt.Errorf("farmwake: %s has no column %q; found %v",
			t.filename, name, t.names())
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(t.rows[i][col]), 64)
	if err != nil {
		return 0, fmt.Errorf("farmwake: %s row %d column %q: %v", t.filename, i+2, name, err)
	}
	return v, nil
}

func (t *csvTable) names() []string {
	names := make([]string, 0, len(t.columns))
	for n := range t.columns {
		names = append(names, n)
	}
	return names
}

// ReadLayout reads a farm layout from the named CSV file. The file must
// have columns x and y (farm coordinates, in meters) and may have
// columns index and hub_height. All turbines are of type typ.
func ReadLayout(filename string, typ *farmwake.TurbineType) (*farmwake.Farm, error) {
	t, err := readCSVTable(filename)
	if err != nil {
		return nil, err
	}
	farm := &farmwake.Farm{Turbines: make([]*farmwake.Turbine, len(t.rows))}
	for i := range t.rows {
		x, err := t.float(i, "x")
		if err != nil {
			return nil, err
		}
		y, err := t.float(i, "y")
		if err != nil {
			return nil, err
		}
		turbine := &farmwake.Turbine{
			Index: i,
			Pos:   geom.Point{X: x, Y: y},
			Type:  typ,
		}
		if t.column("index") >= 0 {
			idx, err := t.float(i, "index")
			if err != nil {
				return nil, err
			}
			turbine.Index = int(idx)
		}
		if t.column("hub_height") >= 0 {
			h, err := t.float(i, "hub_height")
			if err != nil {
				return nil, err
			}
			turbine.HubHeight = h
		}
		farm.Turbines[i] = turbine
	}
	return farm, nil
}

// ReadCurve reads turbine performance curves from the named CSV file
// into typ. The file must have columns ws (m/s), power (W), and ct,
// with wind speeds in increasing order.
func ReadCurve(filename string, typ *farmwake.TurbineType) error {
	t, err := readCSVTable(filename)
	if err != nil {
		return err
	}
	typ.Speeds = make([]float64, len(t.rows))
	typ.Power = make([]float64, len(t.rows))
	typ.CT = make([]float64, len(t.rows))
	for i := range t.rows {
		if typ.Speeds[i], err = t.float(i, "ws"); err != nil {
			return err
		}
		if typ.Power[i], err = t.float(i, "power"); err != nil {
			return err
		}
		if typ.CT[i], err = t.float(i, "ct"); err != nil {
			return err
		}
	}
	return nil
}

// ReadConditions reads an ambient wind condition batch from the named
// CSV file. The file must have columns wd (degrees), ws (m/s), and ti
// (fraction), and may have columns rho (kg/m³) and weight.
func ReadConditions(filename string) (*farmwake.Conditions, error) {
	t, err := readCSVTable(filename)
	if err != nil {
		return nil, err
	}
	n := len(t.rows)
	c := &farmwake.Conditions{
		WD: make([]float64, n),
		WS: make([]float64, n),
		TI: make([]float64, n),
	}
	if t.column("rho") >= 0 {
		c.Rho = make([]float64, n)
	}
	if t.column("weight") >= 0 {
		c.Weight = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		if c.WD[i], err = t.float(i, "wd"); err != nil {
			return nil, err
		}
		if c.WS[i], err = t.float(i, "ws"); err != nil {
			return nil, err
		}
		if c.TI[i], err = t.float(i, "ti"); err != nil {
			return nil, err
		}
		if c.Rho != nil {
			if c.Rho[i], err = t.float(i, "rho"); err != nil {
				return nil, err
			}
		}
		if c.Weight != nil {
			if c.Weight[i], err = t.float(i, "weight"); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// WriteResults writes the named per-turbine result variables as CSV:
// one row per (condition, turbine) pair, prefixed with the state and
// turbine indices.
func WriteResults(w io.Writer, fw *farmwake.FarmWake, vars []string) error {
	results, err := fw.Results(vars...)
	if err != nil {
		return err
	}
	if len(vars) == 0 {
		vars = fw.Grid().Vars()
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"state", "turbine"}, vars...)); err != nil {
		return fmt.Errorf("farmwake: writing results: %v", err)
	}
	row := make([]string, 2+len(vars))
	for s := 0; s < fw.Conditions().Len(); s++ {
		for i, turbine := range fw.Farm().Turbines {
			row[0] = strconv.Itoa(s)
			row[1] = strconv.Itoa(turbine.Index)
			for vi, v := range vars {
				row[2+vi] = strconv.FormatFloat(results[v].Get(s, i), 'g', -1, 64)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("farmwake: writing results: %v", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSlice writes a sampled horizontal flow-field plane as CSV with
// columns x, y, and varName. The matrix rows run south to north across
// bounds, matching HorizontalSlice.
func WriteSlice(w io.Writer, slice *mat.Dense, bounds *geom.Bounds, varName string) error {
	ny, nx := slice.Dims()
	dx := (bounds.Max.X - bounds.Min.X) / float64(nx-1)
	dy := (bounds.Max.Y - bounds.Min.Y) / float64(ny-1)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", strings.ToLower(varName)}); err != nil {
		return fmt.Errorf("farmwake: writing flow field: %v", err)
	}
	row := make([]string, 3)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			row[0] = strconv.FormatFloat(bounds.Min.X+float64(ix)*dx, 'g', -1, 64)
			row[1] = strconv.FormatFloat(bounds.Min.Y+float64(iy)*dy, 'g', -1, 64)
			row[2] = strconv.FormatFloat(slice.At(iy, ix), 'g', -1, 64)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("farmwake: writing flow field: %v", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
