package config

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ModelProfile holds per-million-token prices (USD) and the performance
// characteristics of a model.
type ModelProfile struct {
	ID                string  `json:"id"`
	DisplayName       string  `json:"displayName"`
	InputPerMTok      float64 `json:"inputPerMTok"`
	OutputPerMTok     float64 `json:"outputPerMTok"`
	CacheWritePerMTok float64 `json:"cacheWritePerMTok"`
	CacheReadPerMTok  float64 `json:"cacheReadPerMTok"`
	// SpeedMultiplier scales elapsed time only, never cost.
	SpeedMultiplier float64 `json:"speedMultiplier"`
	// CapabilityMultiplier scales the token volume a task needs. Lower means
	// more capable.
	CapabilityMultiplier float64 `json:"capabilityMultiplier"`
	AgenticCodingCapable bool    `json:"agenticCodingCapable"`
}

// DefaultModelID is the profile used when a UI needs a fallback.
const DefaultModelID = "claude-sonnet-4-5"

// DefaultProfiles maps model ids to their built-in profiles.
var DefaultProfiles = map[string]ModelProfile{
	"claude-opus-4-6": {
		DisplayName:  "Claude Opus 4.6",
		InputPerMTok: 5.00, OutputPerMTok: 25.00,
		CacheWritePerMTok: 6.25, CacheReadPerMTok: 0.50,
		SpeedMultiplier: 1.0, CapabilityMultiplier: 0.8, AgenticCodingCapable: true,
	},
	"claude-opus-4-1": {
		DisplayName:  "Claude Opus 4.1",
		InputPerMTok: 15.00, OutputPerMTok: 75.00,
		CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50,
		SpeedMultiplier: 0.8, CapabilityMultiplier: 0.85, AgenticCodingCapable: true,
	},
	"claude-sonnet-4-5": {
		DisplayName:  "Claude Sonnet 4.5",
		InputPerMTok: 3.00, OutputPerMTok: 15.00,
		CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
		SpeedMultiplier: 1.0, CapabilityMultiplier: 1.0, AgenticCodingCapable: true,
	},
	"claude-sonnet-4": {
		DisplayName:  "Claude Sonnet 4",
		InputPerMTok: 3.00, OutputPerMTok: 15.00,
		CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
		SpeedMultiplier: 1.0, CapabilityMultiplier: 1.1, AgenticCodingCapable: true,
	},
	"claude-haiku-4-5": {
		DisplayName:  "Claude Haiku 4.5",
		InputPerMTok: 1.00, OutputPerMTok: 5.00,
		CacheWritePerMTok: 1.25, CacheReadPerMTok: 0.10,
		SpeedMultiplier: 1.5, CapabilityMultiplier: 1.3, AgenticCodingCapable: true,
	},
	"claude-haiku-3-5": {
		DisplayName:  "Claude Haiku 3.5",
		InputPerMTok: 0.80, OutputPerMTok: 4.00,
		CacheWritePerMTok: 1.00, CacheReadPerMTok: 0.08,
		SpeedMultiplier: 1.5, CapabilityMultiplier: 1.6, AgenticCodingCapable: false,
	},
	"gpt-5": {
		DisplayName:  "GPT-5",
		InputPerMTok: 1.25, OutputPerMTok: 10.00,
		CacheWritePerMTok: 0, CacheReadPerMTok: 0.125,
		SpeedMultiplier: 0.9, CapabilityMultiplier: 1.0, AgenticCodingCapable: true,
	},
	"gpt-4.1": {
		DisplayName:  "GPT-4.1",
		InputPerMTok: 2.00, OutputPerMTok: 8.00,
		CacheWritePerMTok: 0, CacheReadPerMTok: 0.50,
		SpeedMultiplier: 1.1, CapabilityMultiplier: 1.3, AgenticCodingCapable: true,
	},
	"gpt-4o-mini": {
		DisplayName:  "GPT-4o mini",
		InputPerMTok: 0.15, OutputPerMTok: 0.60,
		CacheWritePerMTok: 0, CacheReadPerMTok: 0.075,
		SpeedMultiplier: 1.4, CapabilityMultiplier: 1.8, AgenticCodingCapable: false,
	},
	"gemini-2.5-pro": {
		DisplayName:  "Gemini 2.5 Pro",
		InputPerMTok: 1.25, OutputPerMTok: 10.00,
		CacheWritePerMTok: 0, CacheReadPerMTok: 0.31,
		SpeedMultiplier: 1.0, CapabilityMultiplier: 1.1, AgenticCodingCapable: true,
	},
	"gemini-2.5-flash": {
		DisplayName:  "Gemini 2.5 Flash",
		InputPerMTok: 0.30, OutputPerMTok: 2.50,
		CacheWritePerMTok: 0, CacheReadPerMTok: 0.075,
		SpeedMultiplier: 1.6, CapabilityMultiplier: 1.5, AgenticCodingCapable: false,
	},
}

// Catalog is an immutable set of model profiles. It is safe for concurrent
// use once built.
type Catalog struct {
	profiles  map[string]ModelProfile
	ids       []string
	defaultID string
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(DefaultProfiles, DefaultModelID)
	return c
}

// NewCatalog copies profiles into a new catalog. defaultID must name one of
// the profiles.
func NewCatalog(profiles map[string]ModelProfile, defaultID string) (*Catalog, error) {
	if _, ok := profiles[defaultID]; !ok {
		return nil, fmt.Errorf("default model %q not in catalog", defaultID)
	}

	c := &Catalog{
		profiles:  make(map[string]ModelProfile, len(profiles)),
		ids:       make([]string, 0, len(profiles)),
		defaultID: defaultID,
	}
	for id, p := range profiles {
		p.ID = id
		if p.DisplayName == "" {
			p.DisplayName = TitleCase(id)
		}
		c.profiles[id] = p
		c.ids = append(c.ids, id)
	}
	sort.Strings(c.ids)
	return c, nil
}

// WithOverrides returns a copy of c with the given per-field overrides
// applied. Overrides for unknown ids add a new profile built from zero values.
func (c *Catalog) WithOverrides(overrides map[string]ModelPricingOverride) *Catalog {
	if len(overrides) == 0 {
		return c
	}

	profiles := make(map[string]ModelProfile, len(c.profiles)+len(overrides))
	for id, p := range c.profiles {
		profiles[id] = p
	}
	for id, o := range overrides {
		p, ok := profiles[id]
		if !ok {
			p = ModelProfile{SpeedMultiplier: 1, CapabilityMultiplier: 1}
		}
		profiles[id] = o.apply(p)
	}

	out, _ := NewCatalog(profiles, c.defaultID)
	return out
}

// IDs returns all model ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// DefaultID returns the fallback model id.
func (c *Catalog) DefaultID() string {
	return c.defaultID
}

// Lookup returns the profile for id. Returns a zero profile and false if the
// model is unknown.
func (c *Catalog) Lookup(id string) (ModelProfile, bool) {
	p, ok := c.profiles[id]
	return p, ok
}

// LookupOrDefault returns the profile for id, falling back to the default
// profile for unknown ids.
func (c *Catalog) LookupOrDefault(id string) ModelProfile {
	if p, ok := c.profiles[id]; ok {
		return p
	}
	return c.profiles[c.defaultID]
}

// IsAgenticCapable reports whether id names a model that can perform agentic
// coding. Unknown ids are not capable.
func (c *Catalog) IsAgenticCapable(id string) bool {
	p, ok := c.profiles[id]
	return ok && p.AgenticCodingCapable
}

// CapabilityWarning returns the user-facing warning for a model that cannot
// do agentic coding, or "" if it can. Unknown ids get the warning too.
func (c *Catalog) CapabilityWarning(id string) string {
	if c.IsAgenticCapable(id) {
		return ""
	}
	return fmt.Sprintf(">> Warning! %s is not capable of performing agentic coding tasks. "+
		"Please select a different model for agentic development!", TitleCase(id))
}

// TitleCase turns a model id like "gpt-4o-mini" into "Gpt 4o Mini".
func TitleCase(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
