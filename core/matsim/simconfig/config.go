// Package simconfig reads, edits and writes MATSim configuration documents
// (config_v2.dtd): a list of named modules holding params and nested,
// typed parameter sets.
package simconfig

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/kelheim/core/matsim/xmlio"
)

// DTD is the document type the framework validates configs against.
const DTD = "http://www.matsim.org/files/dtd/config_v2.dtd"

// Param is a single name/value entry.
type Param struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Group holds the params and parameter sets shared by modules and sets.
type Group struct {
	Params []Param          `xml:"param"`
	Sets   []*ParameterSet `xml:"parameterset"`
}

// Module is a top-level config group, e.g. "controller" or "qsim".
type Module struct {
	Name string `xml:"name,attr"`
	Group
}

// ParameterSet is a typed nested group, e.g. "activityParams".
type ParameterSet struct {
	Type string `xml:"type,attr"`
	Group
}

// Config is a MATSim configuration document.
type Config struct {
	XMLName xml.Name  `xml:"config"`
	Modules []*Module `xml:"module"`
}

// New returns an empty configuration.
func New() *Config { return &Config{} }

// Module returns the module with the given name, or nil.
func (c *Config) Module(name string) *Module {
	for _, m := range c.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// GetOrAddModule returns the named module, appending an empty one if absent.
func (c *Config) GetOrAddModule(name string) *Module {
	if m := c.Module(name); m != nil {
		return m
	}
	m := &Module{Name: name}
	c.Modules = append(c.Modules, m)
	return m
}

// Get returns the raw value of a param.
func (g *Group) Get(name string) (string, bool) {
	for _, p := range g.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// GetOr returns the value of a param or def when it is absent.
func (g *Group) GetOr(name, def string) string {
	if v, ok := g.Get(name); ok {
		return v
	}
	return def
}

// Float parses a param as a float. Java's Infinity spellings are accepted.
func (g *Group) Float(name string) (float64, bool, error) {
	v, ok := g.Get(name)
	if !ok {
		return 0, false, nil
	}
	f, err := ParseFloat(v)
	if err != nil {
		return 0, true, fmt.Errorf("param %s: %w", name, err)
	}
	return f, true, nil
}

// Set assigns a param, replacing an existing value in place.
func (g *Group) Set(name, value string) {
	for i := range g.Params {
		if g.Params[i].Name == name {
			g.Params[i].Value = value
			return
		}
	}
	g.Params = append(g.Params, Param{Name: name, Value: value})
}

// SetFloat assigns a float param using the framework's number format.
func (g *Group) SetFloat(name string, v float64) { g.Set(name, FormatFloat(v)) }

// SetInt assigns an integer param.
func (g *Group) SetInt(name string, v int64) { g.Set(name, strconv.FormatInt(v, 10)) }

// SetBool assigns a boolean param.
func (g *Group) SetBool(name string, v bool) { g.Set(name, strconv.FormatBool(v)) }

// Unset removes a param.
func (g *Group) Unset(name string) {
	for i := range g.Params {
		if g.Params[i].Name == name {
			g.Params = append(g.Params[:i], g.Params[i+1:]...)
			return
		}
	}
}

// SetsOfType returns the nested parameter sets of the given type.
func (g *Group) SetsOfType(typ string) []*ParameterSet {
	var out []*ParameterSet
	for _, s := range g.Sets {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

// FindSet returns the first set of the given type accepted by match.
// A nil match accepts any set of that type.
func (g *Group) FindSet(typ string, match func(*ParameterSet) bool) *ParameterSet {
	for _, s := range g.Sets {
		if s.Type == typ && (match == nil || match(s)) {
			return s
		}
	}
	return nil
}

// AddSet appends a new, empty parameter set.
func (g *Group) AddSet(typ string) *ParameterSet {
	s := &ParameterSet{Type: typ}
	g.Sets = append(g.Sets, s)
	return s
}

// GetOrAddSet returns the first set accepted by match or appends a new one.
func (g *Group) GetOrAddSet(typ string, match func(*ParameterSet) bool) *ParameterSet {
	if s := g.FindSet(typ, match); s != nil {
		return s
	}
	return g.AddSet(typ)
}

// ParamEquals builds a FindSet predicate matching a param value.
func ParamEquals(name, value string) func(*ParameterSet) bool {
	return func(s *ParameterSet) bool {
		v, ok := s.Get(name)
		return ok && v == value
	}
}

// Read decodes a configuration document.
func Read(r io.Reader) (*Config, error) {
	var c Config
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

// Load reads a configuration file (optionally gzip compressed).
func Load(path string) (*Config, error) {
	r, err := xmlio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	c, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Write encodes the configuration with the framework's prolog.
func (c *Config) Write(w io.Writer) error {
	if err := xmlio.WriteProlog(w, "config", DTD); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	w, err := xmlio.Create(path)
	if err != nil {
		return err
	}
	if err := c.Write(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// FormatFloat renders a float the way Java's Double.parseDouble reads it.
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFloat parses a float written by the framework.
func ParseFloat(s string) (float64, error) {
	switch strings.TrimSpace(s) {
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FormatTime renders seconds as HH:MM:SS. Hours may exceed 24.
func FormatTime(seconds float64) string {
	s := int64(math.Round(seconds))
	sign := ""
	if s < 0 {
		sign = "-"
		s = -s
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, s/3600, (s%3600)/60, s%60)
}
