package models

// RagStatus is the traffic-light classification used by the dashboards.
// Gray means "no target set".
type RagStatus string

const (
	RagGreen RagStatus = "green"
	RagAmber RagStatus = "amber"
	RagRed   RagStatus = "red"
	RagGray  RagStatus = "gray"
)

// ClassifyRagScoreA rates indicator-performance views:
// >= 75% green, >= 25% amber, below red. Exactly 25% is amber.
func ClassifyRagScoreA(achieved, target float64) RagStatus {
	if target <= 0 {
		return RagGray
	}
	percentage := achieved / target * 100
	if percentage >= 75 {
		return RagGreen
	}
	if percentage >= 25 {
		return RagAmber
	}
	return RagRed
}

// ClassifyRagScoreB rates the plan-vs-progress view. It differs from
// scheme A only at the 25% boundary: exactly 25% is red here, amber
// there. The two views are compared side by side in the product, so the
// divergent boundary handling is preserved rather than unified (flagged
// in DESIGN.md as a likely accidental inconsistency in the source data
// model -- do not "fix" without a product decision).
func ClassifyRagScoreB(achieved, target float64) RagStatus {
	if target <= 0 {
		return RagGray
	}
	percentage := achieved / target * 100
	if percentage >= 75 {
		return RagGreen
	}
	if percentage <= 25 {
		return RagRed
	}
	return RagAmber
}
