package common

// ReputationScore derives a user's reputation from their review record.
// A verified review weighs ten times a pending one.
func ReputationScore(totalReviews, verifiedReviews int64) int64 {
	return verifiedReviews*10 + (totalReviews - verifiedReviews)
}
