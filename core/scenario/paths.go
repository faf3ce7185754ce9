package scenario

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/kilianp07/kelheim/core/matsim/simconfig"
)

// fileParams are the module params holding input file locations.
var fileParams = map[string][]string{
	"network":    {"inputNetworkFile", "inputChangeEventsFile"},
	"plans":      {"inputPlansFile", "inputPersonAttributesFile"},
	"transit":    {"transitScheduleFile", "vehiclesFile", "transitLinesAttributesFile", "transitStopsAttributesFile"},
	"vehicles":   {"vehiclesFile"},
	"counts":     {"inputCountsFile"},
	"facilities": {"inputFacilitiesFile"},
	"households": {"inputFile"},
}

// setFileParams are file params inside parameter sets, keyed by module.
var setFileParams = map[string]map[string][]string{
	"multiModeDrt": {drtSet: {"vehiclesFile", "transitStopFile", "drtServiceAreaShapeFile"}},
	"simwrapper":   {"params": {"shp"}},
}

// IsFileParam reports whether a top level module param holds an input file.
func IsFileParam(module, param string) bool {
	return lo.Contains(fileParams[module], param)
}

// IsURL reports whether a location is remote.
func IsURL(loc string) bool {
	return strings.Contains(loc, "://")
}

// resolvable reports whether a location is a relative local path.
func resolvable(loc string) bool {
	return loc != "" && loc != "null" && !IsURL(loc) && !filepath.IsAbs(loc)
}

// ResolveInputPaths rewrites relative input locations so that they stay
// valid when the config is written to another directory. It returns the
// number of params rewritten.
func ResolveInputPaths(cfg *simconfig.Config, baseDir string) (int, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return 0, err
	}
	n := 0
	resolve := func(g *simconfig.Group, name string) {
		v, ok := g.Get(name)
		if !ok || !resolvable(v) {
			return
		}
		g.Set(name, filepath.Join(abs, filepath.FromSlash(v)))
		n++
	}
	for _, m := range cfg.Modules {
		for _, name := range fileParams[m.Name] {
			resolve(&m.Group, name)
		}
		for typ, names := range setFileParams[m.Name] {
			for _, s := range m.SetsOfType(typ) {
				for _, name := range names {
					resolve(&s.Group, name)
				}
			}
		}
	}
	return n, nil
}
