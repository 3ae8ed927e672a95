package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/multi-llm/bootstrap/pkg/models"
)

func TestTierValid(t *testing.T) {
	tests := []struct {
		name  string
		tier  models.Tier
		valid bool
	}{
		{"lite is valid", models.TierLite, true},
		{"standard is valid", models.TierStandard, true},
		{"enterprise is valid", models.TierEnterprise, true},
		{"empty is invalid", models.Tier(""), false},
		{"zero is invalid", models.Tier("0"), false},
		{"four is invalid", models.Tier("4"), false},
		{"name is invalid", models.Tier("lite"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.Valid(); got != tt.valid {
				t.Errorf("Tier(%q).Valid() = %v, want %v", tt.tier, got, tt.valid)
			}
		})
	}
}

func TestTierAttributes(t *testing.T) {
	tests := []struct {
		tier    models.Tier
		name    string
		ordinal int
	}{
		{models.TierLite, "Lite", 1},
		{models.TierStandard, "Standard", 2},
		{models.TierEnterprise, "Enterprise", 3},
		{models.Tier("9"), "Unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.tier.Ordinal(); got != tt.ordinal {
				t.Errorf("Ordinal() = %d, want %d", got, tt.ordinal)
			}
		})
	}
}

func TestTierNext(t *testing.T) {
	tests := []struct {
		name string
		tier models.Tier
		next models.Tier
	}{
		{"lite to standard", models.TierLite, models.TierStandard},
		{"standard to enterprise", models.TierStandard, models.TierEnterprise},
		{"enterprise stays", models.TierEnterprise, models.TierEnterprise},
		{"invalid stays", models.Tier("7"), models.Tier("7")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.Next(); got != tt.next {
				t.Errorf("Next() = %q, want %q", got, tt.next)
			}
		})
	}
}

func TestTierAtLeast(t *testing.T) {
	if !models.TierEnterprise.AtLeast(models.TierLite) {
		t.Error("enterprise should be at least lite")
	}
	if !models.TierStandard.AtLeast(models.TierStandard) {
		t.Error("a tier should be at least itself")
	}
	if models.TierLite.AtLeast(models.TierStandard) {
		t.Error("lite should not be at least standard")
	}
}

func TestValidTiersAscending(t *testing.T) {
	tiers := models.ValidTiers()
	if len(tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(tiers))
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i-1].Ordinal() >= tiers[i].Ordinal() {
			t.Errorf("tiers out of order at %d: %v", i, tiers)
		}
	}
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dashes", "demo-app", "demo_app"},
		{"spaces", "My Project", "my_project"},
		{"dots", "svc.api", "svc_api"},
		{"mixed case", "DataPipeline", "datapipeline"},
		{"already clean", "tool", "tool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.PackageName(tt.in); got != tt.want {
				t.Errorf("PackageName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Older releases wrote parent_workspace explicitly as null; the field
// must not gain omitempty.
func TestMetaKeepsNullParent(t *testing.T) {
	data, err := json.Marshal(models.Meta{
		Version:  "2026.26",
		Tier:     models.TierLite,
		Name:     "demo",
		Provider: "gemini",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"parent_workspace":null`) {
		t.Errorf("marshaled meta %s drops the parent_workspace null", data)
	}
}
