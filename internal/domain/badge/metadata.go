package badge

import "fmt"

// Attribute is one trait of the ERC-721 metadata document.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Metadata follows the common ERC-721 metadata layout understood by
// marketplaces and wallets.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

type MetadataStats struct {
	VerifiedReviews int64
	TotalReviews    int64
	UniqueLocations int64
	AverageRating   float64
	Reputation      int64
	JoinedAt        string
}

func BuildMetadata(tier Tier, userName string, stats MetadataStats) Metadata {
	return Metadata{
		Name:        tier.Name,
		Description: fmt.Sprintf("%s Awarded to %s.", tier.Description, userName),
		Image:       fmt.Sprintf("ipfs://%s", tier.ImageCID),
		Attributes: []Attribute{
			{TraitType: "Tier Threshold", Value: tier.Threshold},
			{TraitType: "Verified Reviews", Value: stats.VerifiedReviews},
			{TraitType: "Total Reviews", Value: stats.TotalReviews},
			{TraitType: "Unique Locations", Value: stats.UniqueLocations},
			{TraitType: "Average Rating", Value: stats.AverageRating},
			{TraitType: "Reputation", Value: stats.Reputation},
			{TraitType: "Member Since", Value: stats.JoinedAt},
		},
	}
}
