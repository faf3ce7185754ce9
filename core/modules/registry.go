package modules

import (
	"fmt"

	"github.com/kilianp07/kelheim/core/factory"
)

var registry = factory.NewRegistry[Installation]()

// Register adds a module factory identified by its short name.
func Register(name string, f factory.Factory[Installation]) error {
	return registry.Register(name, f)
}

// Registered lists the known module names.
func Registered() []string { return registry.Names() }

// Create builds an installation from its configuration.
func Create(cfg factory.ModuleConfig) (Installation, error) {
	return registry.Create(cfg)
}

// static registers a module without parameters.
func static(name string, kind Kind, class, binds string, eager bool) {
	registry.MustRegister(name, func(map[string]any) (Installation, error) {
		return Installation{Name: name, Kind: kind, Class: class, Binds: binds, Eager: eager}, nil
	})
}

// modeParams are the decoded settings of a modal module.
type modeParams interface {
	mode() string
	params() map[string]any
	validate() error
}

// modal registers a module whose settings decode into P.
func modal[P modeParams](name string, kind Kind, class, binds string, eager bool) {
	registry.MustRegister(name, func(conf map[string]any) (Installation, error) {
		var p P
		if err := factory.Decode(conf, &p); err != nil {
			return Installation{}, fmt.Errorf("module %s: %w", name, err)
		}
		if err := p.validate(); err != nil {
			return Installation{}, fmt.Errorf("module %s: %w", name, err)
		}
		return Installation{
			Name:   name,
			Kind:   kind,
			Class:  class,
			Binds:  binds,
			Mode:   p.mode(),
			Eager:  eager,
			Params: p.params(),
		}, nil
	})
}
