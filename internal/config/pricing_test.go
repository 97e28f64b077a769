package config

import (
	"strings"
	"testing"
)

func TestDefaultCatalogHasDefaultModel(t *testing.T) {
	c := DefaultCatalog()
	p, ok := c.Lookup(DefaultModelID)
	if !ok {
		t.Fatalf("Lookup(%q) returned !ok", DefaultModelID)
	}
	if p.ID != DefaultModelID {
		t.Fatalf("profile ID = %q, want %q", p.ID, DefaultModelID)
	}
	if len(c.IDs()) != len(DefaultProfiles) {
		t.Fatalf("IDs() len = %d, want %d", len(c.IDs()), len(DefaultProfiles))
	}
}

func TestLookupOrDefault(t *testing.T) {
	c := DefaultCatalog()

	if _, ok := c.Lookup("no-such-model"); ok {
		t.Fatal("Lookup returned ok for unknown model")
	}
	p := c.LookupOrDefault("no-such-model")
	if p.ID != DefaultModelID {
		t.Fatalf("LookupOrDefault fell back to %q, want %q", p.ID, DefaultModelID)
	}
	p = c.LookupOrDefault("gpt-5")
	if p.ID != "gpt-5" {
		t.Fatalf("LookupOrDefault(gpt-5) = %q", p.ID)
	}
}

func TestCapabilityWarning(t *testing.T) {
	c := DefaultCatalog()

	if w := c.CapabilityWarning("claude-sonnet-4-5"); w != "" {
		t.Fatalf("capable model produced warning %q", w)
	}

	want := ">> Warning! Gpt 4o Mini is not capable of performing agentic coding tasks. " +
		"Please select a different model for agentic development!"
	if got := c.CapabilityWarning("gpt-4o-mini"); got != want {
		t.Fatalf("CapabilityWarning(gpt-4o-mini) =\n%q\nwant\n%q", got, want)
	}

	// Unknown ids warn as well.
	got := c.CapabilityWarning("my-custom-model")
	if !strings.Contains(got, "My Custom Model is not capable") {
		t.Fatalf("unknown model warning = %q", got)
	}
}

func TestNewCatalogRejectsMissingDefault(t *testing.T) {
	_, err := NewCatalog(map[string]ModelProfile{"a": {}}, "b")
	if err == nil {
		t.Fatal("expected error for default id not in profiles")
	}
}

func TestWithOverrides(t *testing.T) {
	base := DefaultCatalog()
	input := 9.0
	capable := false
	c := base.WithOverrides(map[string]ModelPricingOverride{
		"claude-sonnet-4-5": {InputPerMTok: &input, AgenticCodingCapable: &capable},
		"local-llama":       {InputPerMTok: &input},
	})

	p, _ := c.Lookup("claude-sonnet-4-5")
	if p.InputPerMTok != 9.0 {
		t.Fatalf("overridden InputPerMTok = %.2f, want 9.00", p.InputPerMTok)
	}
	if p.OutputPerMTok != 15.0 {
		t.Fatalf("untouched OutputPerMTok = %.2f, want 15.00", p.OutputPerMTok)
	}
	if c.IsAgenticCapable("claude-sonnet-4-5") {
		t.Fatal("override did not clear agentic capability")
	}

	local, ok := c.Lookup("local-llama")
	if !ok {
		t.Fatal("override for new id did not add a profile")
	}
	if local.SpeedMultiplier != 1 || local.CapabilityMultiplier != 1 {
		t.Fatalf("new profile multipliers = %v/%v, want 1/1", local.SpeedMultiplier, local.CapabilityMultiplier)
	}

	// The base catalog is never mutated.
	orig, _ := base.Lookup("claude-sonnet-4-5")
	if orig.InputPerMTok != 3.0 {
		t.Fatalf("base catalog mutated: InputPerMTok = %.2f", orig.InputPerMTok)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"claude-sonnet-4-5": "Claude Sonnet 4 5",
		"gpt_4o":            "Gpt 4o",
		"single":            "Single",
		"":                  "",
	}
	for in, want := range tests {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
