package address

import "fmt"

// Tier identifies one level of the province/district/ward hierarchy.
type Tier string

const (
	TierProvince Tier = "province"
	TierDistrict Tier = "district"
	TierWard     Tier = "ward"
)

// Tiers lists every tier from the top of the hierarchy down.
var Tiers = []Tier{TierProvince, TierDistrict, TierWard}

// ParseTier converts a wire or flag value to a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

func (t Tier) String() string {
	return string(t)
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t.rank() >= 0
}

// HasParent reports whether options for t depend on a parent selection.
func (t Tier) HasParent() bool {
	return t == TierDistrict || t == TierWard
}

// Parent returns the tier whose selection keys t.
func (t Tier) Parent() (Tier, bool) {
	switch t {
	case TierDistrict:
		return TierProvince, true
	case TierWard:
		return TierDistrict, true
	default:
		return "", false
	}
}

// Child returns the tier keyed by a selection in t.
func (t Tier) Child() (Tier, bool) {
	switch t {
	case TierProvince:
		return TierDistrict, true
	case TierDistrict:
		return TierWard, true
	default:
		return "", false
	}
}

// Above reports whether t sits higher in the hierarchy than other.
func (t Tier) Above(other Tier) bool {
	return t.Valid() && other.Valid() && t.rank() < other.rank()
}

// Below returns every tier under t, nearest first.
func (t Tier) Below() []Tier {
	var below []Tier
	for next, ok := t.Child(); ok; next, ok = next.Child() {
		below = append(below, next)
	}
	return below
}

func (t Tier) rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}
