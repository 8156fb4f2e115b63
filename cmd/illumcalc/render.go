package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wiless/illumcalc/calc"
)

func percent(v vlib.VectorF) vlib.VectorF {
	result := vlib.NewVectorF(len(v))
	for i, x := range v {
		result[i] = 100 * x
	}
	return result
}

// series returns the efficiency curves of s in percent, in plotting order.
func series(s *calc.Sweep) ([]string, []vlib.VectorF) {
	return []string{"Taper", "Spillover", "Aperture"},
		[]vlib.VectorF{percent(s.Taper), percent(s.Spillover), percent(s.Aperture())}
}

func printEfficiency(w io.Writer, e calc.Efficiency) {
	label := color.New(color.FgCyan).SprintFunc()
	value := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s %%\n", label("Taper efficiency:    "), value(fmt.Sprintf("%8.4f", 100*e.Taper)))
	fmt.Fprintf(w, "%s %s %%\n", label("Spillover efficiency:"), value(fmt.Sprintf("%8.4f", 100*e.Spillover)))
	fmt.Fprintf(w, "%s %s %%\n", label("Aperture efficiency: "), value(fmt.Sprintf("%8.4f", 100*e.Aperture())))
	if !e.Converged {
		color.New(color.FgYellow).Fprintf(w, "integrals did not converge (abs err %.3g)\n", e.AbsErr)
	}
}

func printSweep(w io.Writer, s *calc.Sweep) {
	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(w, "%14s %10s %10s %10s\n", s.Variable, "Taper %", "Spill %", "Aperture %")

	ap := s.Aperture()
	for i, v := range s.Values {
		line := fmt.Sprintf("%14.6g %10.4f %10.4f %10.4f", v, 100*s.Taper[i], 100*s.Spillover[i], 100*ap[i])
		if s.Converged[i] {
			fmt.Fprintln(w, line)
		} else {
			color.New(color.FgYellow).Fprintln(w, line+"  (not converged)")
		}
	}

	if len(ap) > 0 {
		best := floats.MaxIdx(ap)
		fmt.Fprintf(w, "peak aperture efficiency %.4f %% at %s = %g (min %.4f %%)\n",
			100*ap[best], s.Variable, s.Values[best], 100*floats.Min(ap))
	}
}

// renderChart writes an interactive HTML line chart of s.
func renderChart(w io.Writer, s *calc.Sweep) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "illumcalc"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Efficiency",
			Subtitle: "vs " + s.Variable,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Name: s.Variable}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Min: 0, Max: 100}),
	)

	xs := make([]string, len(s.Values))
	for i, v := range s.Values {
		xs[i] = fmt.Sprintf("%.6g", v)
	}
	line.SetXAxis(xs)

	names, curves := series(s)
	for i, name := range names {
		data := make([]opts.LineData, len(curves[i]))
		for j, y := range curves[i] {
			data[j] = opts.LineData{Value: y}
		}
		line.AddSeries(name, data)
	}
	return line.Render(w)
}

// renderPlot writes a PNG plot of s.
func renderPlot(w io.Writer, s *calc.Sweep) error {
	p := plot.New()
	p.Title.Text = "Efficiency vs " + s.Variable
	p.X.Label.Text = s.Variable
	p.Y.Label.Text = "%"
	p.Y.Min, p.Y.Max = 0, 100
	p.Legend.Top = false

	names, curves := series(s)
	var lines []any
	for i, name := range names {
		xys := make(plotter.XYs, len(s.Values))
		for j := range xys {
			xys[j].X = s.Values[j]
			xys[j].Y = curves[i][j]
		}
		lines = append(lines, name, xys)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}

	wt, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
