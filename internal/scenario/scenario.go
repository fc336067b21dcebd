// Package scenario provides the incident catalog used to drive and
// constrain simulated runs. A scenario pins the incident description,
// the subset of actions the run may use, and the seed that makes its
// simulated outcomes reproducible.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/synapse-ops/synapse/internal/types"
)

// Scenario is one catalog entry.
type Scenario struct {
	ID          string `yaml:"id"`
	Vertical    string `yaml:"vertical"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	// AllowedActions restricts the run to a subset of the catalog.
	// Empty means unrestricted.
	AllowedActions []string `yaml:"allowed_actions"`

	SuccessCriteria string `yaml:"success_criteria"`
	Seed            int64  `yaml:"seed"`
}

// Allows reports whether the scenario permits the given action.
// Control sentinels are always permitted.
func (s Scenario) Allows(action string) bool {
	if action == "finish" || action == "reflect" {
		return true
	}
	if len(s.AllowedActions) == 0 {
		return true
	}
	for _, a := range s.AllowedActions {
		if a == action {
			return true
		}
	}
	return false
}

// Catalog is an ordered, id-addressable set of scenarios.
type Catalog struct {
	byID  map[string]Scenario
	order []string
}

// NewCatalog validates the scenarios and indexes them by id.
func NewCatalog(scenarios []Scenario) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Scenario, len(scenarios))}

	for i, s := range scenarios {
		if s.ID == "" {
			return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, fmt.Sprintf("scenario %d has no id", i))
		}
		if s.Description == "" {
			return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, fmt.Sprintf("scenario %q has no description", s.ID))
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, fmt.Sprintf("duplicate scenario id %q", s.ID))
		}
		c.byID[s.ID] = s
		c.order = append(c.order, s.ID)
	}

	return c, nil
}

// LoadCatalog reads a YAML scenario file.
//
// The file is a document with a top-level "scenarios" list.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "reading scenario file", err)
	}

	var doc struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "parsing scenario file", err)
	}

	return NewCatalog(doc.Scenarios)
}

// Get returns the scenario with the given id.
func (c *Catalog) Get(id string) (Scenario, error) {
	s, ok := c.byID[id]
	if !ok {
		return Scenario{}, types.NewError(types.SCENARIO_NOT_FOUND, fmt.Sprintf("scenario %q not found", id))
	}
	return s, nil
}

// List returns the scenarios in file order.
func (c *Catalog) List() []Scenario {
	out := make([]Scenario, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// CheckAllowed returns an error when the scenario forbids the action.
func (c *Catalog) CheckAllowed(id, action string) error {
	s, err := c.Get(id)
	if err != nil {
		return err
	}
	if !s.Allows(action) {
		return types.NewError(types.SCENARIO_DISALLOWED,
			fmt.Sprintf("action %q not allowed for scenario %q", action, id))
	}
	return nil
}
