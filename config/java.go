package config

import (
	"fmt"
	"regexp"
)

// DefaultMainClass is the JVM entry point reading the prepared config and module manifest.
const DefaultMainClass = "org.matsim.run.KelheimController"

var heapPattern = regexp.MustCompile(`^[0-9]+[kKmMgG]?$`)

// JavaConfig describes how the simulation JVM is launched.
type JavaConfig struct {
	Binary    string   `json:"binary"`
	Jar       string   `json:"jar"`
	MainClass string   `json:"main_class"`
	MaxHeap   string   `json:"max_heap"`
	Args      []string `json:"args"`
}

func (c *JavaConfig) SetDefaults() {
	if c.Binary == "" {
		c.Binary = "java"
	}
	if c.MainClass == "" {
		c.MainClass = DefaultMainClass
	}
	if c.MaxHeap == "" {
		c.MaxHeap = "20G"
	}
}

// Validate checks the heap size syntax. The jar is only required to launch
// a run, so it is checked by the runner.
func (c JavaConfig) Validate() error {
	if !heapPattern.MatchString(c.MaxHeap) {
		return fmt.Errorf("java: invalid max_heap %q", c.MaxHeap)
	}
	return nil
}
