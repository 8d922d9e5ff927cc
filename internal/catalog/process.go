package catalog

import (
	"fmt"
	"sort"
)

// Process is an immutable production recipe: inputs are consumed, outputs
// produced, tools and facilities must be owned but are not consumed.
// Skills lists the skill names that modulate the stochastic outcome; when
// several are named the executor uses the arithmetic mean of the actor's
// ratings.
type Process struct {
	ID          string
	Name        string
	Inputs      map[*Commodity]int
	Outputs     map[*Commodity]int
	Tools       []*Commodity
	Facilities  []*Commodity
	Labor       int
	Skills      []string
	Description string
}

func (p *Process) String() string {
	return p.Name
}

// ProcessRegistry interns process definitions by ID.
type ProcessRegistry struct {
	byID map[string]*Process
}

func NewProcessRegistry() *ProcessRegistry {
	return &ProcessRegistry{byID: make(map[string]*Process)}
}

func (r *ProcessRegistry) Register(p *Process) error {
	if p.ID == "" {
		return fmt.Errorf("process has empty id")
	}
	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("duplicate process id %q", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

// Get returns the process for an ID, or nil if unknown.
func (r *ProcessRegistry) Get(id string) *Process {
	return r.byID[id]
}

// All returns every registered process, sorted by ID.
func (r *ProcessRegistry) All() []*Process {
	out := make([]*Process, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProducersOf returns the processes whose outputs include the commodity.
func (r *ProcessRegistry) ProducersOf(c *Commodity) []*Process {
	var out []*Process
	for _, p := range r.All() {
		if _, ok := p.Outputs[c]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ConsumersOf returns the processes whose inputs include the commodity.
func (r *ProcessRegistry) ConsumersOf(c *Commodity) []*Process {
	var out []*Process
	for _, p := range r.All() {
		if _, ok := p.Inputs[c]; ok {
			out = append(out, p)
		}
	}
	return out
}
