// Package vehicles reads vehicle type definitions (vehicleDefinitions_v2.0).
package vehicles

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"github.com/kilianp07/kelheim/core/matsim/xmlio"
)

// Type is a vehicle type; only the fields the launcher needs are decoded.
type Type struct {
	ID              string    `xml:"id,attr"`
	MaximumVelocity *velocity `xml:"maximumVelocity"`
}

type velocity struct {
	MeterPerSecond float64 `xml:"meterPerSecond,attr"`
}

// MaxVelocity returns the maximum velocity in m/s. The framework treats a
// missing value as unlimited.
func (t Type) MaxVelocity() float64 {
	if t.MaximumVelocity == nil {
		return math.Inf(1)
	}
	return t.MaximumVelocity.MeterPerSecond
}

// Definitions is a parsed vehicles document.
type Definitions struct {
	XMLName xml.Name `xml:"vehicleDefinitions"`
	Types   []Type   `xml:"vehicleType"`
}

// Type looks up a vehicle type by id.
func (d *Definitions) Type(id string) (Type, bool) {
	for _, t := range d.Types {
		if t.ID == id {
			return t, true
		}
	}
	return Type{}, false
}

// Read decodes a vehicles document.
func Read(r io.Reader) (*Definitions, error) {
	var d Definitions
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	return &d, nil
}

// Load reads a vehicles file (optionally gzip compressed).
func Load(path string) (*Definitions, error) {
	r, err := xmlio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return Read(r)
}
