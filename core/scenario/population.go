package scenario

import (
	"math/rand/v2"
	"strconv"

	"github.com/kilianp07/kelheim/core/matsim/population"
	"github.com/kilianp07/kelheim/core/matsim/xmlio"
)

// Bike preference parameters.
const (
	BicycleLoveAttribute = "bicycleLove"
	BicycleLoveSeed      = 8765
	// BicycleLoveWidth scales the standard normal draw.
	BicycleLoveWidth = 2.0
)

// BicycleLove returns a generator of person-specific bike preferences.
// Values are drawn in document order from a fixed seed, so a population
// always gets the same preferences.
func BicycleLove() func(string) float64 {
	rng := rand.New(rand.NewPCG(BicycleLoveSeed, BicycleLoveSeed))
	return func(string) float64 {
		return BicycleLoveWidth * rng.NormFloat64()
	}
}

// BicycleLoveInjector sets the bicycleLove attribute on every person.
func BicycleLoveInjector() population.AttributeInjector {
	next := BicycleLove()
	return population.AttributeInjector{
		Name:  BicycleLoveAttribute,
		Class: "java.lang.Double",
		Value: func(id string) string {
			return strconv.FormatFloat(next(id), 'g', -1, 64)
		},
	}
}

// AddBicycleLove rewrites a plans file with bike preferences. Both paths
// may be gzipped.
func AddBicycleLove(src, dst string) (int, error) {
	in, err := xmlio.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	out, err := xmlio.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := BicycleLoveInjector().Inject(in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
