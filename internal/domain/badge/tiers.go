package badge

// Tier is one rung of the reviewer badge ladder. A tier is earned once
// the user's verified review count reaches its threshold.
type Tier struct {
	Name        string
	Description string
	Threshold   int
	ImageCID    string
}

var Tiers = []Tier{
	{
		Name:        "First Steps",
		Description: "Shared a first verified accessibility review.",
		Threshold:   1,
		ImageCID:    "bafybeifirststeps",
	},
	{
		Name:        "Community Builder",
		Description: "Contributed 5 verified accessibility reviews.",
		Threshold:   5,
		ImageCID:    "bafybeicommunitybuilder",
	},
	{
		Name:        "Trusted Reviewer",
		Description: "Contributed 25 verified accessibility reviews.",
		Threshold:   25,
		ImageCID:    "bafybeitrustedreviewer",
	},
	{
		Name:        "Access Champion",
		Description: "Contributed 50 verified accessibility reviews.",
		Threshold:   50,
		ImageCID:    "bafybeiaccesschampion",
	},
	{
		Name:        "Accessibility Hero",
		Description: "Contributed 100 verified accessibility reviews.",
		Threshold:   100,
		ImageCID:    "bafybeiaccessibilityhero",
	},
	{
		Name:        "Legend of Access",
		Description: "Contributed 250 verified accessibility reviews.",
		Threshold:   250,
		ImageCID:    "bafybeilegendofaccess",
	},
}

// Eligible returns every tier whose threshold the verified review count
// has reached, in ascending threshold order.
func Eligible(verifiedReviews int64) []Tier {
	var result []Tier
	for _, tier := range Tiers {
		if verifiedReviews >= int64(tier.Threshold) {
			result = append(result, tier)
		}
	}

	return result
}

// NextTier returns the lowest tier strictly above the verified review
// count, or nil if the ladder is complete.
func NextTier(verifiedReviews int64) *Tier {
	for i := range Tiers {
		if verifiedReviews < int64(Tiers[i].Threshold) {
			tier := Tiers[i]
			return &tier
		}
	}

	return nil
}

// ByName looks up a tier by its badge name.
func ByName(name string) (Tier, bool) {
	for _, tier := range Tiers {
		if tier.Name == name {
			return tier, true
		}
	}

	return Tier{}, false
}
