package qsynth

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

/*
Config holds the tunable parts of generation: category weights, coupling strengths,
shaping parameters and run options. NewConfig returns a valid default set.
*/
type Config struct {
	Seed                   uint64 `mapstructure:"seed"`
	Count                  int    `mapstructure:"count"`
	Workers                int    `mapstructure:"workers"`
	MaxConsecutiveFailures int    `mapstructure:"max_consecutive_failures"`
	// Rate caps records started per second; 0 leaves generation unpaced.
	Rate int `mapstructure:"rate"`

	GenreWeights  []float64 `mapstructure:"genre_weights"`
	StateWeights  []float64 `mapstructure:"state_weights"`
	RegionWeights []float64 `mapstructure:"region_weights"`

	TitleCoupling       float64 `mapstructure:"title_coupling"`
	DescriptionCoupling float64 `mapstructure:"description_coupling"`
	IncomeCoupling      float64 `mapstructure:"income_coupling"`
	// UpdaterNoise is the RY angle applied to each updater qubit before it is linked to
	// the creator; 0 makes the updater always equal the creator.
	UpdaterNoise float64 `mapstructure:"updater_noise"`

	UniformBits int     `mapstructure:"uniform_bits"`
	IncomeBits  int     `mapstructure:"income_bits"`
	YearScale   float64 `mapstructure:"year_scale"`
	AgeMean     float64 `mapstructure:"age_mean"`
	AgeStd      float64 `mapstructure:"age_std"`
}

func NewConfig() *Config {
	return &Config{
		Seed:                   42,
		Count:                  50,
		Workers:                4,
		MaxConsecutiveFailures: 5,
		GenreWeights:           []float64{0.2, 0.15, 0.15, 0.15, 0.1, 0.1, 0.075, 0.075},
		StateWeights:           []float64{0.7, 0.2, 0.1},
		RegionWeights:          []float64{0.25, 0.2, 0.2, 0.2, 0.15},
		TitleCoupling:          0.6,
		DescriptionCoupling:    0.6,
		IncomeCoupling:         1.0,
		UpdaterNoise:           0.9,
		UniformBits:            10,
		IncomeBits:             8,
		YearScale:              25,
		AgeMean:                40,
		AgeStd:                 12,
	}
}

/*
LoadConfig starts from NewConfig, overlays the file at path (any format viper reads) when
path is not empty, then QSYNTH_* environment variables.
*/
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	v := viper.New()
	v.SetEnvPrefix("QSYNTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("count", cfg.Count)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("max_consecutive_failures", cfg.MaxConsecutiveFailures)
	v.SetDefault("rate", cfg.Rate)
	v.SetDefault("genre_weights", cfg.GenreWeights)
	v.SetDefault("state_weights", cfg.StateWeights)
	v.SetDefault("region_weights", cfg.RegionWeights)
	v.SetDefault("title_coupling", cfg.TitleCoupling)
	v.SetDefault("description_coupling", cfg.DescriptionCoupling)
	v.SetDefault("income_coupling", cfg.IncomeCoupling)
	v.SetDefault("updater_noise", cfg.UpdaterNoise)
	v.SetDefault("uniform_bits", cfg.UniformBits)
	v.SetDefault("income_bits", cfg.IncomeBits)
	v.SetDefault("year_scale", cfg.YearScale)
	v.SetDefault("age_mean", cfg.AgeMean)
	v.SetDefault("age_std", cfg.AgeStd)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks everything that does not depend on a catalog.
func (c *Config) Validate() error {
	if len(c.GenreWeights) != int(genreCount) {
		return configError("%d genre weights for %d genres", len(c.GenreWeights), genreCount)
	}

	for _, w := range []struct {
		name    string
		weights []float64
	}{
		{"genre", c.GenreWeights},
		{"state", c.StateWeights},
		{"region", c.RegionWeights},
	} {
		if err := ValidateWeights(w.weights); err != nil {
			return fmt.Errorf("%s weights: %w", w.name, err)
		}
	}

	for _, s := range []struct {
		name     string
		strength float64
	}{
		{"title_coupling", c.TitleCoupling},
		{"description_coupling", c.DescriptionCoupling},
		{"income_coupling", c.IncomeCoupling},
	} {
		if s.strength < 0 || s.strength > 1 || math.IsNaN(s.strength) {
			return configError("%s %v outside [0, 1]", s.name, s.strength)
		}
	}

	switch {
	case c.Count < 0:
		return configError("negative count %d", c.Count)
	case c.Rate < 0:
		return configError("negative rate %d", c.Rate)
	case c.Workers < 1:
		return configError("workers %d < 1", c.Workers)
	case c.UniformBits < 1 || c.UniformBits > 20:
		return configError("uniform_bits %d outside [1, 20]", c.UniformBits)
	case c.IncomeBits < 1 || c.IncomeBits > 16:
		return configError("income_bits %d outside [1, 16]", c.IncomeBits)
	case c.YearScale <= 0:
		return configError("year_scale %v must be positive", c.YearScale)
	case c.AgeStd <= 0:
		return configError("age_std %v must be positive", c.AgeStd)
	}

	return nil
}
