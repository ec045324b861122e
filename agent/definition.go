package agent

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the serialized form of a persona.
type Definition struct {
	Name         string `yaml:"name"                json:"name"`
	Instructions string `yaml:"instructions"        json:"instructions"`
	Model        string `yaml:"model,omitempty"     json:"model,omitempty"`
}

// Agent builds an Agent from the definition. A blank model selects DefaultModel.
func (d Definition) Agent() *Agent {
	if d.Model == "" {
		return New(d.Name, d.Instructions)
	}
	return New(d.Name, d.Instructions, WithModel(d.Model))
}

type definitionFile struct {
	Agents []Definition `yaml:"agents"`
}

// LoadDefinitions parses a persona document of the form
//
//	agents:
//	  - name: Busy Sales Agent
//	    instructions: You respond with short, curt responses.
//	    model: gpt-4o-mini
//
// JSON input is accepted as well since it is valid YAML.
func LoadDefinitions(r io.Reader) ([]Definition, error) {
	var f definitionFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode persona definitions: %w", err)
	}
	return f.Agents, nil
}

// LoadDefinitionsFile reads persona definitions from path.
func LoadDefinitionsFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open persona file: %w", err)
	}
	defer f.Close()

	return LoadDefinitions(f)
}

// FromDefinitions builds agents in definition order and validates each one.
func FromDefinitions(defs []Definition) ([]*Agent, error) {
	agents := make([]*Agent, 0, len(defs))
	for i, d := range defs {
		a := d.Agent()
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("definition %d: %w", i, err)
		}
		agents = append(agents, a)
	}
	return agents, nil
}
