// Package chart renders the backtest report as a self-contained HTML page
// with price, indicator, equity and drawdown panels.
package chart

import (
	"math"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

const timeLabelLayout = "2006-01-02"

// ReportData holds everything one report page shows. IndicatorValues and
// Drawdowns are aligned with Bars and Equity respectively.
type ReportData struct {
	Symbol          string
	Bars            []types.Bar
	IndicatorValues []float64
	Threshold       float64
	Trades          []types.Trade
	Equity          []types.EquityPoint
	Drawdowns       []float64
}

// Render writes the report page to the given path.
func Render(path string, data ReportData) error {
	page := components.NewPage()
	page.PageTitle = data.Symbol + " backtest"
	page.AddCharts(
		priceChart(data),
		indicatorChart(data),
		equityChart(data),
		drawdownChart(data),
	)

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeChartRenderFailed, "failed to create chart file", err)
	}
	defer file.Close()

	if err := page.Render(file); err != nil {
		return errors.Wrap(errors.ErrCodeChartRenderFailed, "failed to render chart", err)
	}

	return nil
}

func timeLabels(times []time.Time) []string {
	labels := make([]string, len(times))
	for i, t := range times {
		labels[i] = t.Format(timeLabelLayout)
	}

	return labels
}

func barTimes(bars []types.Bar) []time.Time {
	times := make([]time.Time, len(bars))
	for i, bar := range bars {
		times[i] = bar.Time
	}

	return times
}

func equityTimes(points []types.EquityPoint) []time.Time {
	times := make([]time.Time, len(points))
	for i, point := range points {
		times[i] = point.Time
	}

	return times
}

func newLine(title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	return line
}

func priceChart(data ReportData) components.Charter {
	line := newLine(data.Symbol + " close")

	closes := make([]opts.LineData, len(data.Bars))
	for i, bar := range data.Bars {
		closes[i] = opts.LineData{Value: bar.Close}
	}

	line.SetXAxis(timeLabels(barTimes(data.Bars))).
		AddSeries("Close", closes)

	entries := make([]opts.ScatterData, 0, len(data.Trades))
	exits := make([]opts.ScatterData, 0, len(data.Trades))

	for _, trade := range data.Trades {
		entries = append(entries, opts.ScatterData{
			Value:      []any{trade.EntryTime.Format(timeLabelLayout), trade.EntryPrice},
			SymbolSize: 10,
		})
		exits = append(exits, opts.ScatterData{
			Value:      []any{trade.ExitTime.Format(timeLabelLayout), trade.ExitPrice},
			SymbolSize: 10,
		})
	}

	scatter := charts.NewScatter()
	scatter.AddSeries("Entry", entries).
		AddSeries("Exit", exits)

	line.Overlap(scatter)

	return line
}

func indicatorChart(data ReportData) components.Charter {
	line := newLine("RSI")

	values := make([]opts.LineData, len(data.IndicatorValues))
	threshold := make([]opts.LineData, len(data.IndicatorValues))

	for i, v := range data.IndicatorValues {
		if math.IsNaN(v) {
			values[i] = opts.LineData{Value: nil}
		} else {
			values[i] = opts.LineData{Value: v}
		}

		threshold[i] = opts.LineData{Value: data.Threshold}
	}

	line.SetXAxis(timeLabels(barTimes(data.Bars))).
		AddSeries("RSI", values).
		AddSeries("Threshold", threshold)

	return line
}

func equityChart(data ReportData) components.Charter {
	line := newLine("Equity")

	values := make([]opts.LineData, len(data.Equity))
	for i, point := range data.Equity {
		values[i] = opts.LineData{Value: point.Value}
	}

	line.SetXAxis(timeLabels(equityTimes(data.Equity))).
		AddSeries("Equity", values)

	return line
}

func drawdownChart(data ReportData) components.Charter {
	line := newLine("Drawdown")

	values := make([]opts.LineData, len(data.Drawdowns))
	for i, v := range data.Drawdowns {
		values[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(timeLabels(equityTimes(data.Equity))).
		AddSeries("Drawdown", values)

	return line
}
