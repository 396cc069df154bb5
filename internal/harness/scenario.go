package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/asof/internal/blockrange"
)

// Scenario defines a versioning conformance scenario: a sequence of
// writes at blocks, then as-of queries with expected outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Entity names the entity type the scenario exercises. Informational;
	// the model is schemaless.
	Entity string `yaml:"entity"`

	// Writes are applied in order. Blocks must be non-decreasing, as the
	// real write path only ever moves forward.
	Writes []WriteStep `yaml:"writes"`

	// Queries run after all writes have been applied.
	Queries []QueryStep `yaml:"queries"`
}

// WriteStep writes the next version of an entity, or deletes it.
type WriteStep struct {
	// Block is the coordinate the write happens at.
	Block blockrange.BlockNumber `yaml:"block"`

	// ID identifies the entity.
	ID string `yaml:"id"`

	// Values is the new version's state. Required unless Delete is set.
	Values map[string]any `yaml:"values,omitempty"`

	// Delete ends the entity's validity at Block without a successor.
	Delete bool `yaml:"delete,omitempty"`
}

// QueryStep reads an entity as of a block and states the expected
// outcome: either a subset of the values that must be seen, or absence.
type QueryStep struct {
	// At is the block the table is viewed as of.
	At blockrange.BlockNumber `yaml:"at"`

	// ID identifies the entity.
	ID string `yaml:"id"`

	// Expect contains expected field values (subset match).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Absent asserts that no version is valid at the block.
	Absent bool `yaml:"absent,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "querys:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Writes) == 0 {
		return fmt.Errorf("writes list is required and must be non-empty")
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	var prev blockrange.BlockNumber
	for i, w := range s.Writes {
		if w.ID == "" {
			return fmt.Errorf("writes[%d]: id is required", i)
		}
		if w.Block < 0 {
			return fmt.Errorf("writes[%d]: block must be non-negative", i)
		}
		if w.Block < prev {
			return fmt.Errorf("writes[%d]: blocks must be non-decreasing", i)
		}
		prev = w.Block
		if !w.Delete && len(w.Values) == 0 {
			return fmt.Errorf("writes[%d]: values is required unless delete is set", i)
		}
		if w.Delete && len(w.Values) > 0 {
			return fmt.Errorf("writes[%d]: delete and values are mutually exclusive", i)
		}
	}

	for i, q := range s.Queries {
		if q.ID == "" {
			return fmt.Errorf("queries[%d]: id is required", i)
		}
		if q.At < 0 {
			return fmt.Errorf("queries[%d]: at must be non-negative", i)
		}
		if q.Absent && len(q.Expect) > 0 {
			return fmt.Errorf("queries[%d]: absent and expect are mutually exclusive", i)
		}
		if !q.Absent && len(q.Expect) == 0 {
			return fmt.Errorf("queries[%d]: expect is required unless absent is set", i)
		}
	}

	return nil
}
