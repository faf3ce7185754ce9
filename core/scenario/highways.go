package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/kilianp07/kelheim/core/matsim/network"
)

// Highway link attributes.
const (
	HighwayFreeSpeed = 120.0 / 3.6 // m/s
	HighwayCapacity  = 6000.0      // veh/h
	HighwayLanes     = 6.0
)

// HighwayModes may use the new highway links.
var HighwayModes = []string{"car", "freight", "drt", "av"}

// Highway plan names.
const (
	PlanKelheim     = "kelheim"
	PlanKelheim1pct = "kelheim-1pct"
)

// Highway is a two-way connection between two existing nodes.
type Highway struct {
	ID        string
	ReverseID string
	From      string
	To        string
}

// HighwayPlan is an ordered set of highways inserted into the network.
type HighwayPlan struct {
	Name     string
	Highways []Highway
}

// NodeIDs returns the distinct node ids touched by the plan.
func (p HighwayPlan) NodeIDs() []string {
	ids := make([]string, 0, len(p.Highways)*2)
	for _, h := range p.Highways {
		ids = append(ids, h.From, h.To)
	}
	return lo.Uniq(ids)
}

// LinkIDs returns every link id the plan inserts.
func (p HighwayPlan) LinkIDs() []string {
	ids := make([]string, 0, len(p.Highways)*2)
	for _, h := range p.Highways {
		ids = append(ids, h.ID, h.ReverseID)
	}
	return ids
}

func newPlan(name, reverseSuffix string, ends [][2]string) HighwayPlan {
	p := HighwayPlan{Name: name}
	for i, e := range ends {
		id := "myNewHighway" + strconv.Itoa(i+1)
		p.Highways = append(p.Highways, Highway{ID: id, ReverseID: id + reverseSuffix, From: e[0], To: e[1]})
	}
	return p
}

func highwayEnds(via string) [][2]string {
	return [][2]string{
		{"297315202", "273092049"},
		{"273092049", "1399775825"},
		{"1399775825", "105728207"},
		{"105728207", via},
		{via, "pt_regio_348113"},
		{"pt_regio_348113", "434482779"},
		{"434482779", "9026955992"},
		{"9026955992", "297274414"},
		{"297274414", "9057780469"},
		{"9057780469", "298138516"},
		{"298138516", "105739519"},
		{"298138516", "297315202"},
	}
}

var plans = map[string]HighwayPlan{
	PlanKelheim:     newPlan(PlanKelheim, "ReverseDirection", highwayEnds("9019173953")),
	PlanKelheim1pct: newPlan(PlanKelheim1pct, "Rev", highwayEnds("3447440176")),
}

// Plan returns a highway plan by name.
func Plan(name string) (HighwayPlan, error) {
	p, ok := plans[name]
	if !ok {
		return HighwayPlan{}, fmt.Errorf("unknown highway plan %q (have %v)", name, PlanNames())
	}
	return p, nil
}

// PlanNames lists the known highway plans.
func PlanNames() []string {
	names := lo.Keys(plans)
	sort.Strings(names)
	return names
}

// AllowFreightOnCarLinks lets freight use every link open to cars and
// returns the number of links changed.
func AllowFreightOnCarLinks(n *network.Network) int {
	changed := 0
	for _, l := range n.Links.Links {
		if l.Allows("car") && !l.Allows("freight") {
			l.SetAllowedModes(append(l.AllowedModes(), "freight"))
			changed++
		}
	}
	return changed
}

// ApplyHighways inserts the plan's links. The whole plan is checked before
// the network is touched, so a failing plan leaves it unchanged.
func ApplyHighways(n *network.Network, plan HighwayPlan) ([]string, error) {
	var errs []error
	seen := map[string]bool{}
	for _, id := range plan.NodeIDs() {
		if _, ok := n.Node(id); !ok {
			errs = append(errs, fmt.Errorf("highway plan %s: %w: %s", plan.Name, network.ErrNodeNotFound, id))
		}
	}
	for _, id := range plan.LinkIDs() {
		if _, ok := n.Link(id); ok || seen[id] {
			errs = append(errs, fmt.Errorf("highway plan %s: %w: %s", plan.Name, network.ErrLinkExists, id))
		}
		seen[id] = true
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	added := make([]string, 0, len(plan.Highways)*2)
	for _, h := range plan.Highways {
		from, _ := n.Node(h.From)
		to, _ := n.Node(h.To)
		length := network.EuclideanDistance(from, to)
		for _, l := range []*network.Link{
			highwayLink(h.ID, h.From, h.To, length),
			highwayLink(h.ReverseID, h.To, h.From, length),
		} {
			if err := n.AddLink(l); err != nil {
				return added, err
			}
			added = append(added, l.ID)
		}
	}
	return added, nil
}

func highwayLink(id, from, to string, length float64) *network.Link {
	l := &network.Link{
		ID:        id,
		From:      from,
		To:        to,
		Length:    length,
		FreeSpeed: HighwayFreeSpeed,
		Capacity:  HighwayCapacity,
		Lanes:     HighwayLanes,
		OneWay:    "1",
	}
	l.SetAllowedModes(HighwayModes)
	return l
}

// PatchReport summarises a network patch.
type PatchReport struct {
	Plan         string
	FreightLinks int
	AddedLinks   []string
	// Shortcuts are the highways whose end nodes had no car path between
	// them before the patch.
	Shortcuts []string
	// Connected is true when every highway node reaches every other by car.
	Connected bool
}

// PatchNetwork opens car links to freight, inserts the highway plan and
// checks that the highway nodes are mutually reachable by car.
func PatchNetwork(n *network.Network, plan HighwayPlan) (PatchReport, error) {
	rep := PatchReport{Plan: plan.Name}
	before := n.Graph("car")
	added, err := ApplyHighways(n, plan)
	if err != nil {
		return rep, err
	}
	rep.AddedLinks = added
	for _, h := range plan.Highways {
		ok, err := before.Reachable(h.From, h.To)
		if err != nil {
			return rep, fmt.Errorf("check highway %s: %w", h.ID, err)
		}
		if !ok {
			rep.Shortcuts = append(rep.Shortcuts, h.ID)
		}
	}
	rep.FreightLinks = AllowFreightOnCarLinks(n)
	rep.Connected, err = n.Graph("car").StronglyConnected(plan.NodeIDs())
	if err != nil {
		return rep, fmt.Errorf("check highway connectivity: %w", err)
	}
	return rep, nil
}
