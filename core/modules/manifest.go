package modules

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Kind tells the entry point how to install an entry.
type Kind string

const (
	// KindModule installs an AbstractModule as overriding module.
	KindModule Kind = "module"
	// KindBinding binds an interface to an implementation.
	KindBinding Kind = "binding"
	// KindListener adds a controler listener binding.
	KindListener Kind = "listener"
	// KindEventHandler adds an event handler binding.
	KindEventHandler Kind = "eventHandler"
	// KindRouteFactory registers a route factory on the population.
	KindRouteFactory Kind = "routeFactory"
	// KindQSimComponents configures the QSim components.
	KindQSimComponents Kind = "qsimComponents"
)

// Installation is one entry of the manifest.
type Installation struct {
	Name  string `yaml:"name" json:"name"`
	Kind  Kind   `yaml:"kind" json:"kind"`
	Class string `yaml:"class" json:"class"`
	// Binds is the bound interface for bindings and route factories.
	Binds string `yaml:"binds,omitempty" json:"binds,omitempty"`
	// Mode scopes modal bindings to one DVRP mode.
	Mode   string         `yaml:"mode,omitempty" json:"mode,omitempty"`
	Eager  bool           `yaml:"eager,omitempty" json:"eager,omitempty"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Manifest is the ordered list of installations for one run.
type Manifest struct {
	Scenario string         `yaml:"scenario"`
	RunID    string         `yaml:"runId,omitempty"`
	Modules  []Installation `yaml:"modules"`
}

// Names returns the installation names in order.
func (m *Manifest) Names() []string {
	out := make([]string, len(m.Modules))
	for i, in := range m.Modules {
		out[i] = in.Name
	}
	return out
}

// Find returns the installations with the given name.
func (m *Manifest) Find(name string) []Installation {
	var out []Installation
	for _, in := range m.Modules {
		if in.Name == name {
			out = append(out, in)
		}
	}
	return out
}

// Write encodes the manifest as YAML.
func (m *Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return enc.Close()
}

// Save writes the manifest to path, creating parent directories.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a manifest written by Save.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}
