package main

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/wiless/illumcalc/aperture"
	"github.com/wiless/illumcalc/calc"
	"github.com/wiless/illumcalc/feed"
	"github.com/wiless/illumcalc/integrate"
)

// Parameter is one {name, value} update. Values are kept as text and parsed
// by the model that owns the parameter.
type Parameter struct {
	Name  string `mapstructure:"name"`
	Value string `mapstructure:"value"`
}

// ModelConfig selects a feed or aperture kind and the updates applied, in
// order, on top of its defaults.
type ModelConfig struct {
	Kind       string      `mapstructure:"kind"`
	Parameters []Parameter `mapstructure:"parameters"`
}

type CalculationConfig struct {
	Mode       string      `mapstructure:"mode"`
	Parameters []Parameter `mapstructure:"parameters"`
	AbsTol     float64     `mapstructure:"abs_tol"`
	RelTol     float64     `mapstructure:"rel_tol"`
	MaxIter    int         `mapstructure:"max_iter"`
	Order      int         `mapstructure:"order"`
}

// AppConfig  Struct for the app parameters
type AppConfig struct {
	LogLevel    string            `mapstructure:"log_level"`
	Feed        ModelConfig       `mapstructure:"feed"`
	Aperture    ModelConfig       `mapstructure:"aperture"`
	Calculation CalculationConfig `mapstructure:"calculation"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("feed.kind", "CosThetaQ")
	v.SetDefault("aperture.kind", "Circular")
	v.SetDefault("calculation.mode", "DirectCalc")
	v.SetDefault("calculation.abs_tol", integrate.DefaultOptions.AbsTol)
	v.SetDefault("calculation.rel_tol", integrate.DefaultOptions.RelTol)
	v.SetDefault("calculation.max_iter", integrate.DefaultOptions.MaxIter)
	v.SetDefault("calculation.order", integrate.DefaultOptions.Order)
}

// ReadAppConfig reads the optional config file and ILLUMCALC_* environment
// variables into an AppConfig.
func ReadAppConfig(v *viper.Viper, file string) (AppConfig, error) {
	var cfg AppConfig

	setDefaults(v)
	v.SetEnvPrefix("ILLUMCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	// YAML numbers must reach the models as text
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Models builds the feed, aperture and calculation described by cfg.
func (cfg AppConfig) Models() (*feed.Feed, *aperture.Aperture, *calc.Calculation, error) {
	f := feed.New()
	kind, err := feed.ParseKind(cfg.Feed.Kind)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("feed: %w", err)
	}
	if err := f.SetType(kind); err != nil {
		return nil, nil, nil, fmt.Errorf("feed: %w", err)
	}
	for _, p := range cfg.Feed.Parameters {
		if err := f.UpdateParameter(p.Name, p.Value); err != nil {
			return nil, nil, nil, fmt.Errorf("feed: %w", err)
		}
	}

	a := aperture.New()
	akind, err := aperture.ParseKind(cfg.Aperture.Kind)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("aperture: %w", err)
	}
	if err := a.SetType(akind); err != nil {
		return nil, nil, nil, fmt.Errorf("aperture: %w", err)
	}
	for _, p := range cfg.Aperture.Parameters {
		if err := a.UpdateParameter(p.Name, p.Value); err != nil {
			return nil, nil, nil, fmt.Errorf("aperture: %w", err)
		}
	}

	c := calc.NewCalculation()
	mode, err := calc.ParseMode(cfg.Calculation.Mode)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("calculation: %w", err)
	}
	if err := c.SetMode(mode); err != nil {
		return nil, nil, nil, fmt.Errorf("calculation: %w", err)
	}
	for _, p := range cfg.Calculation.Parameters {
		if err := c.UpdateParameter(p.Name, p.Value); err != nil {
			return nil, nil, nil, fmt.Errorf("calculation: %w", err)
		}
	}
	c.Options = integrate.Options{
		AbsTol:  cfg.Calculation.AbsTol,
		RelTol:  cfg.Calculation.RelTol,
		MaxIter: cfg.Calculation.MaxIter,
		Order:   cfg.Calculation.Order,
	}.WithDefaults()

	return f, a, c, nil
}
