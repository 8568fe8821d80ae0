package saju

// VariantCount is the number of authored content variants per type.
const VariantCount = 5

// SeedFromPillar hashes a pillar into a non-negative integer: the sum of the
// label lengths of the day stem, year branch and month stem. Collisions are
// expected; only determinism matters.
func SeedFromPillar(p Pillar) int {
	seed := len(p.Day.Stem) + len(p.Year.Branch) + len(p.Month.Stem)
	if seed < 0 {
		return -seed
	}
	return seed
}

// VariantIndex reduces a seed into [0, VariantCount).
func VariantIndex(seed int) int {
	return mod(seed, VariantCount)
}

// VariantFromPillar is VariantIndex(SeedFromPillar(p)).
func VariantFromPillar(p Pillar) int {
	return VariantIndex(SeedFromPillar(p))
}

// ValidVariant reports whether v is a routable variant index.
func ValidVariant(v int) bool {
	return v >= 0 && v < VariantCount
}
