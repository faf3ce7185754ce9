// Package network models MATSim network documents (network_v2.dtd) and the
// edits applied to them before a run.
package network

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"

	"github.com/kilianp07/kelheim/core/matsim/xmlio"
)

// DTD is the document type of written networks.
const DTD = "http://www.matsim.org/files/dtd/network_v2.dtd"

var (
	// ErrNodeNotFound is returned when a referenced node id is missing.
	ErrNodeNotFound = errors.New("node not found")
	// ErrLinkExists is returned when a link id is already taken.
	ErrLinkExists = errors.New("link already exists")
)

// Attribute is a typed object attribute.
type Attribute struct {
	Name  string `xml:"name,attr"`
	Class string `xml:"class,attr"`
	Value string `xml:",chardata"`
}

// Attributes is the <attributes> block carried by networks, nodes and links.
type Attributes struct {
	Items []Attribute `xml:"attribute"`
}

// Node is a point of the network graph.
type Node struct {
	ID         string      `xml:"id,attr"`
	X          float64     `xml:"x,attr"`
	Y          float64     `xml:"y,attr"`
	Z          *float64    `xml:"z,attr,omitempty"`
	Extra      []xml.Attr  `xml:",any,attr"`
	Attributes *Attributes `xml:"attributes,omitempty"`
}

// Coord returns the node position in the network's projected CRS.
func (n *Node) Coord() orb.Point { return orb.Point{n.X, n.Y} }

// Link is a directed edge between two nodes.
type Link struct {
	ID         string      `xml:"id,attr"`
	From       string      `xml:"from,attr"`
	To         string      `xml:"to,attr"`
	Length     float64     `xml:"length,attr"`
	FreeSpeed  float64     `xml:"freespeed,attr"`
	Capacity   float64     `xml:"capacity,attr"`
	Lanes      float64     `xml:"permlanes,attr"`
	OneWay     string      `xml:"oneway,attr,omitempty"`
	Modes      string      `xml:"modes,attr"`
	Extra      []xml.Attr  `xml:",any,attr"`
	Attributes *Attributes `xml:"attributes,omitempty"`
}

// AllowedModes returns the modes allowed on the link.
func (l *Link) AllowedModes() []string {
	if strings.TrimSpace(l.Modes) == "" {
		return nil
	}
	return lo.Map(strings.Split(l.Modes, ","), func(m string, _ int) string { return strings.TrimSpace(m) })
}

// SetAllowedModes replaces the allowed modes, dropping duplicates.
func (l *Link) SetAllowedModes(modes []string) {
	l.Modes = strings.Join(lo.Uniq(lo.Filter(modes, func(m string, _ int) bool { return m != "" })), ",")
}

// Allows reports whether mode may use the link.
func (l *Link) Allows(mode string) bool { return lo.Contains(l.AllowedModes(), mode) }

// LinkSet is the <links> element with its capacity period settings.
type LinkSet struct {
	CapPeriod          string  `xml:"capperiod,attr,omitempty"`
	EffectiveCellSize  string  `xml:"effectivecellsize,attr,omitempty"`
	EffectiveLaneWidth string  `xml:"effectivelanewidth,attr,omitempty"`
	Links              []*Link `xml:"link"`
}

// Network is a MATSim network document with id indexes.
type Network struct {
	XMLName    xml.Name    `xml:"network"`
	Name       string      `xml:"name,attr,omitempty"`
	Attributes *Attributes `xml:"attributes,omitempty"`
	Nodes      []*Node     `xml:"nodes>node"`
	Links      LinkSet     `xml:"links"`

	nodes map[string]*Node
	links map[string]*Link
}

// New returns an empty network with the framework's default capacity period.
func New() *Network {
	n := &Network{Links: LinkSet{CapPeriod: "01:00:00"}}
	n.reindex()
	return n
}

func (n *Network) reindex() {
	n.nodes = make(map[string]*Node, len(n.Nodes))
	for _, nd := range n.Nodes {
		n.nodes[nd.ID] = nd
	}
	n.links = make(map[string]*Link, len(n.Links.Links))
	for _, l := range n.Links.Links {
		n.links[l.ID] = l
	}
}

// Node looks up a node by id.
func (n *Network) Node(id string) (*Node, bool) {
	nd, ok := n.nodes[id]
	return nd, ok
}

// Link looks up a link by id.
func (n *Network) Link(id string) (*Link, bool) {
	l, ok := n.links[id]
	return l, ok
}

// AddNode inserts a node; an existing id is replaced.
func (n *Network) AddNode(nd *Node) {
	if old, ok := n.nodes[nd.ID]; ok {
		*old = *nd
		return
	}
	n.Nodes = append(n.Nodes, nd)
	n.nodes[nd.ID] = nd
}

// AddLink inserts a link whose end nodes must already exist.
func (n *Network) AddLink(l *Link) error {
	if _, ok := n.links[l.ID]; ok {
		return fmt.Errorf("%w: %s", ErrLinkExists, l.ID)
	}
	for _, id := range []string{l.From, l.To} {
		if _, ok := n.nodes[id]; !ok {
			return fmt.Errorf("link %s: %w: %s", l.ID, ErrNodeNotFound, id)
		}
	}
	n.Links.Links = append(n.Links.Links, l)
	n.links[l.ID] = l
	return nil
}

// EuclideanDistance is the straight-line distance between two nodes. The
// elevation counts only when both nodes have one.
func EuclideanDistance(a, b *Node) float64 {
	d := planar.Distance(a.Coord(), b.Coord())
	if a.Z == nil || b.Z == nil {
		return d
	}
	return math.Hypot(d, *a.Z-*b.Z)
}

// Read decodes a network document and builds the id indexes.
func Read(r io.Reader) (*Network, error) {
	var n Network
	if err := xml.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	n.reindex()
	return &n, nil
}

// Load reads a network file (optionally gzip compressed).
func Load(path string) (*Network, error) {
	r, err := xmlio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	n, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Write encodes the network with the framework's prolog.
func (n *Network) Write(w io.Writer) error {
	if err := xmlio.WriteProlog(w, "network", DTD); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("encode network: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Save writes the network to path.
func (n *Network) Save(path string) error {
	w, err := xmlio.Create(path)
	if err != nil {
		return err
	}
	if err := n.Write(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
