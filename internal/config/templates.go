package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/theirongolddev/agentcost/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtinTemplates []byte

// Template is a named parameter preset used to pre-fill a request.
type Template struct {
	Name        string                   `yaml:"name" json:"name"`
	Description string                   `yaml:"description" json:"description"`
	Request     model.CalculationRequest `yaml:"request" json:"request"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// TemplateSet is an immutable collection of templates keyed by name.
type TemplateSet struct {
	byName map[string]Template
	names  []string
}

// LoadTemplates parses the built-in templates and, if extraPath is set, the
// user's template file on top. User templates replace built-ins by name.
func LoadTemplates(extraPath string) (*TemplateSet, error) {
	set, err := ParseTemplates(builtinTemplates)
	if err != nil {
		return nil, fmt.Errorf("parsing built-in templates: %w", err)
	}
	if extraPath == "" {
		return set, nil
	}

	data, err := os.ReadFile(extraPath) //nolint:gosec // path comes from the user's config
	if err != nil {
		return nil, fmt.Errorf("reading templates %s: %w", extraPath, err)
	}
	extra, err := ParseTemplates(data)
	if err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", extraPath, err)
	}
	return set.merge(extra), nil
}

// ParseTemplates decodes a YAML template document.
func ParseTemplates(data []byte) (*TemplateSet, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	set := &TemplateSet{byName: make(map[string]Template, len(f.Templates))}
	for _, t := range f.Templates {
		if t.Name == "" {
			return nil, fmt.Errorf("template without a name")
		}
		if _, dup := set.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate template %q", t.Name)
		}
		set.byName[t.Name] = t
		set.names = append(set.names, t.Name)
	}
	sort.Strings(set.names)
	return set, nil
}

func (s *TemplateSet) merge(o *TemplateSet) *TemplateSet {
	out := &TemplateSet{byName: make(map[string]Template, len(s.byName)+len(o.byName))}
	for name, t := range s.byName {
		out.byName[name] = t
	}
	for name, t := range o.byName {
		out.byName[name] = t
	}
	for name := range out.byName {
		out.names = append(out.names, name)
	}
	sort.Strings(out.names)
	return out
}

// Names returns template names in sorted order.
func (s *TemplateSet) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// All returns every template, sorted by name.
func (s *TemplateSet) All() []Template {
	out := make([]Template, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.byName[name])
	}
	return out
}

// Get returns the named template.
func (s *TemplateSet) Get(name string) (Template, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Apply returns the template request with the non-zero fields of base laid
// on top. Parameter groups present in base replace the preset's group whole.
func (t Template) Apply(base model.CalculationRequest) model.CalculationRequest {
	out := t.Request

	if base.ProjectType != "" {
		out.ProjectType = base.ProjectType
	}

	g := base.GlobalParams
	if g.CurrencyRate != 0 {
		out.GlobalParams.CurrencyRate = g.CurrencyRate
	}
	if g.AICapabilityFactor != nil {
		out.GlobalParams.AICapabilityFactor = g.AICapabilityFactor
	}
	if g.TotalCostMultiplier != nil {
		out.GlobalParams.TotalCostMultiplier = g.TotalCostMultiplier
	}
	if g.CustomerName != "" {
		out.GlobalParams.CustomerName = g.CustomerName
	}
	if g.ProjectName != "" {
		out.GlobalParams.ProjectName = g.ProjectName
	}
	if g.ProjectDescription != "" {
		out.GlobalParams.ProjectDescription = g.ProjectDescription
	}
	if g.DisclaimerText != "" {
		out.GlobalParams.DisclaimerText = g.DisclaimerText
	}

	if base.ModelConfig.PrimaryModelID != "" {
		out.ModelConfig = base.ModelConfig
	}

	// Copy pointed-to groups so callers can't mutate the preset.
	if base.ProjectParams != nil {
		out.ProjectParams = base.ProjectParams
	} else if out.ProjectParams != nil {
		p := *out.ProjectParams
		out.ProjectParams = &p
	}
	if base.TeamParams != nil {
		out.TeamParams = base.TeamParams
	} else if out.TeamParams != nil {
		p := *out.TeamParams
		out.TeamParams = &p
	}
	if base.ProductParams != nil {
		out.ProductParams = base.ProductParams
	} else if out.ProductParams != nil {
		p := *out.ProductParams
		out.ProductParams = &p
	}

	return out
}
