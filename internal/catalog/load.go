package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog bundles the three registries a simulation needs.
type Catalog struct {
	Commodities *CommodityRegistry
	Processes   *ProcessRegistry
	Skills      *SkillRegistry
}

// processDoc is the YAML shape of a process definition; commodity IDs are
// resolved to interned pointers after commodities load.
type processDoc struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Inputs      map[string]int `yaml:"inputs"`
	Outputs     map[string]int `yaml:"outputs"`
	Tools       []string       `yaml:"tools_required"`
	Facilities  []string       `yaml:"facilities_required"`
	Labor       int            `yaml:"labor"`
	Skills      []string       `yaml:"relevant_skills"`
	Description string         `yaml:"description"`
}

// Load reads commodities.yaml, processes.yaml, and skills.yaml from dir.
// Process definitions referencing unknown commodity or skill IDs are a
// hard error: the catalog is pre-validated input, not something to limp
// past at runtime.
func Load(dir string) (*Catalog, error) {
	cat := &Catalog{
		Commodities: NewCommodityRegistry(),
		Processes:   NewProcessRegistry(),
		Skills:      NewSkillRegistry(),
	}

	var commodities []*Commodity
	if err := readYAML(filepath.Join(dir, "commodities.yaml"), &commodities); err != nil {
		return nil, err
	}
	for _, c := range commodities {
		if err := cat.Commodities.Register(c); err != nil {
			return nil, fmt.Errorf("commodities.yaml: %w", err)
		}
	}

	var skills []*Skill
	if err := readYAML(filepath.Join(dir, "skills.yaml"), &skills); err != nil {
		return nil, err
	}
	for _, s := range skills {
		cat.Skills.Register(s)
	}

	var docs []processDoc
	if err := readYAML(filepath.Join(dir, "processes.yaml"), &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		p, err := cat.resolveProcess(doc)
		if err != nil {
			return nil, fmt.Errorf("processes.yaml: %w", err)
		}
		if err := cat.Processes.Register(p); err != nil {
			return nil, fmt.Errorf("processes.yaml: %w", err)
		}
	}

	return cat, nil
}

func (cat *Catalog) resolveProcess(doc processDoc) (*Process, error) {
	p := &Process{
		ID:          doc.ID,
		Name:        doc.Name,
		Inputs:      make(map[*Commodity]int, len(doc.Inputs)),
		Outputs:     make(map[*Commodity]int, len(doc.Outputs)),
		Labor:       doc.Labor,
		Skills:      doc.Skills,
		Description: doc.Description,
	}

	for id, qty := range doc.Inputs {
		c := cat.Commodities.Get(id)
		if c == nil {
			return nil, fmt.Errorf("process %q input: unknown commodity %q", doc.ID, id)
		}
		p.Inputs[c] = qty
	}
	for id, qty := range doc.Outputs {
		c := cat.Commodities.Get(id)
		if c == nil {
			return nil, fmt.Errorf("process %q output: unknown commodity %q", doc.ID, id)
		}
		p.Outputs[c] = qty
	}
	for _, id := range doc.Tools {
		c := cat.Commodities.Get(id)
		if c == nil {
			return nil, fmt.Errorf("process %q tool: unknown commodity %q", doc.ID, id)
		}
		p.Tools = append(p.Tools, c)
	}
	for _, id := range doc.Facilities {
		c := cat.Commodities.Get(id)
		if c == nil {
			return nil, fmt.Errorf("process %q facility: unknown commodity %q", doc.ID, id)
		}
		p.Facilities = append(p.Facilities, c)
	}
	for _, id := range doc.Skills {
		if cat.Skills.Get(id) == nil {
			return nil, fmt.Errorf("process %q: unknown skill %q", doc.ID, id)
		}
	}

	return p, nil
}

func readYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
