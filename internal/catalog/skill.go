package catalog

import "sort"

// Skill is a named proficiency actors can hold at different ratings.
type Skill struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SkillRegistry interns skill definitions by ID.
type SkillRegistry struct {
	byID map[string]*Skill
}

func NewSkillRegistry() *SkillRegistry {
	return &SkillRegistry{byID: make(map[string]*Skill)}
}

func (r *SkillRegistry) Register(s *Skill) {
	r.byID[s.ID] = s
}

func (r *SkillRegistry) Get(id string) *Skill {
	return r.byID[id]
}

func (r *SkillRegistry) All() []*Skill {
	out := make([]*Skill, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Rating bounds. Unrated skills read as UnskilledRating; experience can
// push a rating up to MaxRating.
const (
	UnskilledRating = 0.5
	MaxRating       = 3.0
)

// SkillSet holds one actor's ratings by skill ID.
type SkillSet map[string]float64

// Rating returns the actor's rating for a skill, UnskilledRating when the
// skill has never been trained.
func (s SkillSet) Rating(skillID string) float64 {
	if r, ok := s[skillID]; ok {
		return r
	}
	return UnskilledRating
}

// CombinedRating averages the ratings for the named skills. Processes
// with several relevant skills use this mean.
func (s SkillSet) CombinedRating(skillIDs []string) float64 {
	if len(skillIDs) == 0 {
		return UnskilledRating
	}
	sum := 0.0
	for _, id := range skillIDs {
		sum += s.Rating(id)
	}
	return sum / float64(len(skillIDs))
}

// Improve nudges a rating up by delta, capped at MaxRating. Successful
// production calls this with a small delta.
func (s SkillSet) Improve(skillID string, delta float64) {
	r := s.Rating(skillID) + delta
	if r > MaxRating {
		r = MaxRating
	}
	s[skillID] = r
}
