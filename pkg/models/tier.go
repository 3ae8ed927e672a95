package models

// Tier identifies a workspace complexity level. The wire value is the
// numeric string stored in workspace.json ("1", "2", "3").
type Tier string

const (
	// TierLite is flat automation-script structure.
	TierLite Tier = "1"

	// TierStandard is the modular package structure with tests (default).
	TierStandard Tier = "2"

	// TierEnterprise is the domain-isolated multi-agent structure.
	TierEnterprise Tier = "3"
)

// tierInfo holds the static attributes of one tier.
type tierInfo struct {
	name    string
	desc    string
	ordinal int
}

var tierTable = map[Tier]tierInfo{
	TierLite:       {name: "Lite", desc: "Simple scripts & automation", ordinal: 1},
	TierStandard:   {name: "Standard", desc: "Modular applications", ordinal: 2},
	TierEnterprise: {name: "Enterprise", desc: "Multi-domain systems", ordinal: 3},
}

// ValidTiers returns all valid tier values in ascending order.
func ValidTiers() []Tier {
	return []Tier{TierLite, TierStandard, TierEnterprise}
}

// Valid checks if the tier is a known value.
func (t Tier) Valid() bool {
	_, ok := tierTable[t]
	return ok
}

// Name returns the human-readable tier name, or "Unknown" for invalid values.
func (t Tier) Name() string {
	if info, ok := tierTable[t]; ok {
		return info.name
	}
	return "Unknown"
}

// Desc returns a one-line description of the tier.
func (t Tier) Desc() string {
	return tierTable[t].desc
}

// Ordinal returns the tier's position (1..3), or 0 for invalid values.
// Upgrades require the target ordinal to exceed the current one.
func (t Tier) Ordinal() int {
	return tierTable[t].ordinal
}

// Next returns the next tier up, or the same tier when already at the top
// or invalid.
func (t Tier) Next() Tier {
	switch t {
	case TierLite:
		return TierStandard
	case TierStandard:
		return TierEnterprise
	}
	return t
}

// AtLeast reports whether the tier's ordinal is >= other's.
func (t Tier) AtLeast(other Tier) bool {
	return t.Ordinal() >= other.Ordinal()
}
