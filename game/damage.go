package game

import "github.com/chewxy/math32"

const (
	// EffectiveRange is the distance at which shots stop doing damage.
	EffectiveRange = float32(100)
	// DamageFalloff is the fraction of damage lost at the edge of the effective range.
	DamageFalloff = float32(0.5)
	// EstimateBaseDamage is the per-hit damage the server applies, used for local score estimates.
	EstimateBaseDamage = 5
)

// DamageAtDistance returns the damage a shot of the given base damage does at the given distance. Damage
// falls off linearly to half at the effective range, and nothing is done at or beyond it.
func DamageAtDistance(base int, distance, effectiveRange float32) int {
	if effectiveRange <= 0 || distance >= effectiveRange {
		return 0
	}
	distance = math32.Max(distance, 0)
	multiplier := 1 - distance/effectiveRange*DamageFalloff
	return int(math32.Floor(float32(base) * multiplier))
}
