package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// SampleOptions selects the population sample size. The first size is the
// default and is the one baked into file names of the base config.
type SampleOptions struct {
	sizes    []float64
	selected float64
	explicit bool
}

// NewSampleOptions returns options offering the given percentages.
func NewSampleOptions(sizes ...float64) SampleOptions {
	if len(sizes) == 0 {
		sizes = []float64{25}
	}
	return SampleOptions{sizes: sizes, selected: sizes[0]}
}

// Sizes returns the offered percentages.
func (s SampleOptions) Sizes() []float64 { return s.sizes }

// Select picks a sample size. Selecting two different sizes is an error.
func (s *SampleOptions) Select(size float64) error {
	if !lo.Contains(s.sizes, size) {
		return fmt.Errorf("sample size %spct not offered (have %s)", FormatPct(size), s.describe())
	}
	if s.explicit && s.selected != size {
		return fmt.Errorf("conflicting sample sizes %spct and %spct", FormatPct(s.selected), FormatPct(size))
	}
	s.selected, s.explicit = size, true
	return nil
}

// Size is the selected sample size in percent.
func (s SampleOptions) Size() float64 { return s.selected }

// Sample is the selected sample as a fraction.
func (s SampleOptions) Sample() float64 { return s.selected / 100.0 }

// AdjustName rewrites the default sample marker in a file or run name to
// the selected one, e.g. "kelheim-v3.1-25pct" becomes "kelheim-v3.1-1pct".
func (s SampleOptions) AdjustName(name string) string {
	if len(s.sizes) == 0 || s.selected == s.sizes[0] {
		return name
	}
	def := s.sizes[0]
	from := FormatPct(def) + "pct"
	to := FormatPct(s.selected) + "pct"
	if strings.Contains(name, from) {
		return strings.ReplaceAll(name, from, to)
	}
	return strings.ReplaceAll(name, strconv.FormatFloat(def, 'f', 1, 64)+"pct", to)
}

func (s SampleOptions) describe() string {
	return strings.Join(lo.Map(s.sizes, func(v float64, _ int) string { return FormatPct(v) + "pct" }), ", ")
}

// FormatPct renders a percentage without trailing zeros.
func FormatPct(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
