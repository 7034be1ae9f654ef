package model

import (
	"time"

	"github.com/maccessmap/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	result := User{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(DefaultTimeLayout),
	}

	if includeSensitive {
		result.Email = user.Email.String
		result.WalletAddress = user.WalletAddress.String
	}

	return result
}

func ConvertLocation(location *entity.Location, averageRating float64, totalReviews int64) Location {
	if location == nil {
		return Location{}
	}

	return Location{
		ID:            location.ID,
		Name:          location.Name,
		Address:       location.Address,
		Category:      location.Category,
		Latitude:      location.Latitude,
		Longitude:     location.Longitude,
		AverageRating: averageRating,
		TotalReviews:  totalReviews,
		CreatedAt:     location.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertReview(review *entity.Review) Review {
	if review == nil {
		return Review{}
	}

	return Review{
		ID:           review.ID,
		UserID:       review.UserID,
		UserName:     review.User.Name,
		UserAvatar:   review.User.AvatarURL,
		LocationID:   review.LocationID,
		LocationName: review.Location.Name,
		Rating:       review.Rating,
		Tags:         review.Tags,
		Photos:       review.Photos,
		Comment:      review.Comment,
		Verified:     review.Verified,
		CreatedAt:    review.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt:    review.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertBadgeMint(mint *entity.BadgeMint) Badge {
	if mint == nil {
		return Badge{}
	}

	badge := Badge{
		Name:        mint.BadgeName,
		Threshold:   mint.Threshold,
		State:       BadgeStateEarnedNotMinted,
		MetadataURI: mint.MetadataURI,
	}

	if mint.Minted() {
		tokenID := mint.TokenID.Int64
		badge.State = BadgeStateMinted
		badge.TokenID = &tokenID
		badge.TxHash = mint.TxHash
		if mint.MintedAt.Valid {
			badge.MintedAt = mint.MintedAt.Time.Format(DefaultTimeLayout)
		}
	}

	return badge
}
