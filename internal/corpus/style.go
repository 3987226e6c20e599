// Package corpus holds the style document, the objective writing rules
// derived from it and the reference exemplar set used for similarity.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pillar is one named principle of the style contract.
type Pillar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Exemplar is an approved reference text.
type Exemplar struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// Style is the YAML style document.
type Style struct {
	Contract    string     `yaml:"contract"`
	Pillars     []Pillar   `yaml:"pillars"`
	BannedTerms []string   `yaml:"banned_terms"`
	Exemplars   []Exemplar `yaml:"exemplars"`
}

// Load reads and validates the style document at path.
func Load(path string) (*Style, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a style document.
func Parse(raw []byte) (*Style, error) {
	var style Style
	if err := yaml.Unmarshal(raw, &style); err != nil {
		return nil, fmt.Errorf("failed to parse style file: %w", err)
	}

	if err := style.Validate(); err != nil {
		return nil, err
	}
	return &style, nil
}

// Validate checks the document is usable by the judges.
func (s *Style) Validate() error {
	if strings.TrimSpace(s.Contract) == "" {
		return errors.New("style contract cannot be empty")
	}
	if len(s.Pillars) == 0 {
		return errors.New("style must declare at least one pillar")
	}

	seen := make(map[string]bool, len(s.Exemplars))
	for i, ex := range s.Exemplars {
		if strings.TrimSpace(ex.Text) == "" {
			return fmt.Errorf("exemplar %d has no text", i)
		}
		if ex.ID == "" {
			return fmt.Errorf("exemplar %d has no id", i)
		}
		if seen[ex.ID] {
			return fmt.Errorf("duplicate exemplar id %q", ex.ID)
		}
		seen[ex.ID] = true
	}
	return nil
}

// PillarNames returns the pillar names in document order.
func (s *Style) PillarNames() []string {
	names := make([]string, 0, len(s.Pillars))
	for _, p := range s.Pillars {
		names = append(names, p.Name)
	}
	return names
}

// ContractText renders the contract with its pillars and banned terms, as
// handed to the contract judge.
func (s *Style) ContractText() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(s.Contract))
	b.WriteString("\n\nPillars:\n")
	for _, p := range s.Pillars {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, strings.TrimSpace(p.Description))
	}
	if len(s.BannedTerms) > 0 {
		fmt.Fprintf(&b, "\nBanned terms: %s\n", strings.Join(s.BannedTerms, "; "))
	}
	return b.String()
}
