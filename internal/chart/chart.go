// Package chart renders feature-table summaries with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/roach88/perov/internal/table"
)

// ErrNoColumns indicates a build with nothing to chart.
var ErrNoColumns = errors.New("chart: result has no columns")

// Default canvas size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Occupancy counts, per column of res, the rows whose composition has the
// symbol. Counts follow res.Columns order.
func Occupancy(res *table.Result) plotter.Values {
	counts := make(plotter.Values, len(res.Columns))
	for i, col := range res.Columns {
		for _, row := range res.Rows {
			if row.Has(col) {
				counts[i]++
			}
		}
	}
	return counts
}

// OccupancyPlot builds a bar chart of Occupancy(res) with one bar per column.
// Columns reported as new are drawn in a darker shade.
func OccupancyPlot(res *table.Result) (*plot.Plot, error) {
	if len(res.Columns) == 0 {
		return nil, ErrNoColumns
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Column occupancy (%d rows)", len(res.Rows))
	p.Y.Label.Text = "Rows"
	p.Y.Min = 0

	isNew := make(map[string]bool, len(res.NewColumns))
	for _, c := range res.NewColumns {
		isNew[c] = true
	}

	counts := Occupancy(res)
	existing := make(plotter.Values, len(counts))
	added := make(plotter.Values, len(counts))
	for i, col := range res.Columns {
		if isNew[col] {
			added[i] = counts[i]
		} else {
			existing[i] = counts[i]
		}
	}

	width := vg.Points(14)
	for _, layer := range []struct {
		values plotter.Values
		color  color.Color
		legend string
	}{
		{existing, color.Gray{Y: 180}, "existing"},
		{added, color.Gray{Y: 60}, "new"},
	} {
		bars, err := plotter.NewBarChart(layer.values, width)
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = layer.color
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(layer.legend, bars)
	}
	p.Legend.Top = true
	p.NominalX(res.Columns...)

	return p, nil
}

// WriteOccupancy renders the occupancy chart to w in the given format
// ("png", "svg", "pdf", ...).
func WriteOccupancy(w io.Writer, res *table.Result, format string) error {
	p, err := OccupancyPlot(res)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return fmt.Errorf("chart writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// SaveOccupancy renders the occupancy chart to path; the extension picks the format.
func SaveOccupancy(path string, res *table.Result) error {
	p, err := OccupancyPlot(res)
	if err != nil {
		return err
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		return fmt.Errorf("chart: %q has no extension to pick a format", path)
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
