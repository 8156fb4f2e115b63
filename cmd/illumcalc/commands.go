package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wiless/illumcalc/aperture"
	"github.com/wiless/illumcalc/calc"
	"github.com/wiless/illumcalc/feed"
	"github.com/wiless/illumcalc/params"
)

type app struct {
	v          *viper.Viper
	configFile string
	cfg        AppConfig
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:          "illumcalc",
		Short:        "feed to aperture illumination efficiency",
		Long:         "computes taper, spillover and aperture efficiency of a cos(theta)^q feed illuminating a planar aperture",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ReadAppConfig(a.v, a.configFile)
			if err != nil {
				return err
			}
			if err := initLogger(cfg.LogLevel); err != nil {
				return err
			}
			a.cfg = cfg
			log.Debugf("Config: %#v", cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "panic, fatal, error, warn, info, debug or trace")
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(a.calcCmd(), a.sweepCmd(), a.schemaCmd())
	return root
}

func (a *app) calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "compute efficiency for the configured feed and aperture",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ap, c, err := a.cfg.Models()
			if err != nil {
				return err
			}
			if err := c.SetMode(calc.DirectCalc); err != nil {
				return err
			}
			res, err := c.Run(cmd.Context(), f, ap, nil)
			if err != nil {
				return err
			}
			printEfficiency(cmd.OutOrStdout(), *res.Point)
			return nil
		},
	}
}

func (a *app) sweepCmd() *cobra.Command {
	var chartFile, plotFile string
	var overrides = map[string]*string{
		calc.SweepVariable: new(string),
		calc.SweepStart:    new(string),
		calc.SweepStop:     new(string),
		calc.SweepSteps:    new(string),
	}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one feed or aperture parameter",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ap, c, err := a.cfg.Models()
			if err != nil {
				return err
			}
			if c.Mode() != calc.Sweep1D {
				log.WithField("mode", c.Mode()).Info("switching to 1D sweep with default range")
				if err := c.SetMode(calc.Sweep1D); err != nil {
					return err
				}
			}
			for _, name := range c.Names() {
				if raw := *overrides[name]; raw != "" {
					if err := c.UpdateParameter(name, raw); err != nil {
						return err
					}
				}
			}

			progress := func(p int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\r%3d%%", p)
				if p == 100 {
					fmt.Fprintln(cmd.ErrOrStderr())
				}
			}
			res, err := c.Run(cmd.Context(), f, ap, progress)
			if err != nil {
				return err
			}
			printSweep(cmd.OutOrStdout(), res.Sweep)

			if chartFile != "" {
				if err := writeFile(chartFile, func(w io.Writer) error { return renderChart(w, res.Sweep) }); err != nil {
					return err
				}
				log.WithField("file", chartFile).Info("chart written")
			}
			if plotFile != "" {
				if err := writeFile(plotFile, func(w io.Writer) error { return renderPlot(w, res.Sweep) }); err != nil {
					return err
				}
				log.WithField("file", plotFile).Info("plot written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chartFile, "chart", "", "write an HTML chart of the sweep")
	cmd.Flags().StringVar(&plotFile, "plot", "", "write a PNG plot of the sweep")
	cmd.Flags().StringVar(overrides[calc.SweepVariable], "variable", "", "parameter to sweep, e.g. \"Radius (mm)\"")
	cmd.Flags().StringVar(overrides[calc.SweepStart], "start", "", "first sweep value")
	cmd.Flags().StringVar(overrides[calc.SweepStop], "stop", "", "last sweep value")
	cmd.Flags().StringVar(overrides[calc.SweepSteps], "steps", "", "number of samples")
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "list feed kinds, aperture kinds and calculation modes with their parameters",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			printSchema(cmd.OutOrStdout())
			return nil
		},
	}
}

func printSchema(w io.Writer) {
	header := color.New(color.FgCyan, color.Bold)
	printValues := func(vals []params.Value) {
		for _, v := range vals {
			fmt.Fprintf(w, "    %-16s %-6s %g\n", v.Name, v.Unit, v.Value)
		}
	}

	for k := feed.CosThetaQ; int(k) < len(feed.Kinds); k++ {
		f := feed.New()
		if err := f.SetType(k); err != nil {
			continue
		}
		header.Fprintf(w, "feed: %s\n", k)
		printValues(f.Parameters())
	}
	for k := aperture.Circular; int(k) < len(aperture.Kinds); k++ {
		ap := aperture.New()
		if err := ap.SetType(k); err != nil {
			continue
		}
		header.Fprintf(w, "aperture: %s\n", k)
		printValues(ap.Parameters())
	}
	for m := calc.DirectCalc; int(m) < len(calc.Modes); m++ {
		c := calc.NewCalculation()
		if err := c.SetMode(m); err != nil {
			continue
		}
		header.Fprintf(w, "calculation: %s\n", m)
		for _, s := range c.Parameters() {
			fmt.Fprintf(w, "    %-16s %s\n", s.Name, s.Value)
		}
	}
}

func writeFile(name string, render func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", name, err)
	}
	return f.Close()
}
