// Package plot renders the moving averages of match results (see package winsma) as an HTML
// line chart.
package plot

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/janpfeifer/gametree/internal/winsma"
	"github.com/pkg/errors"
)

// WinRates renders a chart of the moving averages with one line for each outcome: wins of each
// AI and draws. names are the names of the AIs, used in the legend.
func WinRates(w io.Writer, title string, names [2]string, stats []winsma.Stats) error {
	if len(stats) == 0 {
		return errors.New("no results to plot")
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("Moving average over %d matches", len(stats)),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "rate", Min: 0, Max: 1}),
		charts.WithXAxisOpts(opts.XAxis{Name: "match"}),
	)

	matches := make([]string, 0, len(stats))
	for ii := range stats {
		matches = append(matches, fmt.Sprintf("%d", ii+1))
	}
	line = line.SetXAxis(matches)
	seriesNames := []string{names[0] + " wins", names[1] + " wins", "draws"}
	for outcome, name := range seriesNames {
		items := make([]opts.LineData, 0, len(stats))
		for _, s := range stats {
			items = append(items, opts.LineData{Value: s[outcome]})
		}
		line.AddSeries(name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return errors.Wrap(err, "failed to render chart")
	}
	return nil
}

// WinRatesToFile is like WinRates, but writes the chart to the HTML file at path.
func WinRatesToFile(path, title string, names [2]string, stats []winsma.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create chart file")
	}
	if err = WinRates(f, title, names, stats); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close chart file %q", path)
	}
	return nil
}
