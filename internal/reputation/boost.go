package reputation

import "math"

const (
	boostUnit = 50.0
	boostCap  = 3.0
)

// PromotionBoost grows logarithmically with external karma:
//
//	1                                      externalKarma ≤ 0
//	min(3, 1 + log10(max(1, karma/50)))    otherwise
//
// 100 points gives ≈1.3, 5000 points hits the cap.
func PromotionBoost(externalKarma int64) float64 {
	if externalKarma <= 0 {
		return 1
	}
	return math.Min(boostCap, 1+math.Log10(math.Max(1, float64(externalKarma)/boostUnit)))
}
