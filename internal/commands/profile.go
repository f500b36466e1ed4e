package commands

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a YAML document that overrides the expected command order:
//
//	name: campus-access
//	expected_order:
//	  - show clock
//	  - show version
type Profile struct {
	Name          string   `yaml:"name"`
	ExpectedOrder []string `yaml:"expected_order"`
}

// Order resolves the profile labels. An empty profile yields DefaultOrder.
func (p *Profile) Order() ([]Family, error) {
	if len(p.ExpectedOrder) == 0 {
		return append([]Family(nil), DefaultOrder...), nil
	}
	order := make([]Family, 0, len(p.ExpectedOrder))
	for i, label := range p.ExpectedOrder {
		f, err := ParseFamily(label)
		if err != nil {
			return nil, fmt.Errorf("expected_order[%d]: %w", i, err)
		}
		order = append(order, f)
	}
	return order, nil
}

// LoadProfile reads a profile file.
func LoadProfile(path string) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening command profile: %w", err)
	}
	defer file.Close()

	return LoadProfileFromReader(file)
}

// LoadProfileFromReader reads a profile from r.
func LoadProfileFromReader(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading command profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing command profile: %w", err)
	}
	if _, err := p.Order(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadOrder returns the expected order of the profile at path, or DefaultOrder
// when path is empty.
func LoadOrder(path string) ([]Family, error) {
	if path == "" {
		return append([]Family(nil), DefaultOrder...), nil
	}
	p, err := LoadProfile(path)
	if err != nil {
		return nil, err
	}
	return p.Order()
}
