package testutil

import (
	"context"
	"database/sql"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/repository"
)

var (
	// Users.
	User1      = entity.User{Base: entity.Base{ID: "user1"}, Name: "alice", Role: entity.UserRole}
	User2      = entity.User{Base: entity.Base{ID: "user2"}, Name: "bob", Role: entity.UserRole}
	Admin      = entity.User{Base: entity.Base{ID: "admin"}, Name: "admin", Role: entity.AdminRole}
	WalletUser = entity.User{
		Base: entity.Base{ID: "walletuser"},
		Name: "carol",
		Role: entity.UserRole,
		WalletAddress: sql.NullString{
			String: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
			Valid:  true,
		},
	}

	// Locations.
	Location1 = entity.Location{
		Base:      entity.Base{ID: "location1"},
		Name:      "Central Library",
		Address:   "1 Main Street",
		Category:  entity.CategoryEducation,
		Latitude:  52.370216,
		Longitude: 4.895168,
		CreatedBy: "user1",
	}
	Location2 = entity.Location{
		Base:      entity.Base{ID: "location2"},
		Name:      "Corner Cafe",
		Address:   "2 Side Street",
		Category:  entity.CategoryCafe,
		Latitude:  52.372000,
		Longitude: 4.900000,
		CreatedBy: "user2",
	}

	// Reviews. Review1 is already verified, Review2 is still pending.
	Review1 = entity.Review{
		Base:       entity.Base{ID: "review1"},
		UserID:     "user1",
		LocationID: "location1",
		Rating:     5,
		Tags:       entity.Array[string]{"wheelchair-accessible", "accessible-restroom"},
		Comment:    "Step free entrance and a wide elevator.",
		Verified:   true,
	}
	Review2 = entity.Review{
		Base:       entity.Base{ID: "review2"},
		UserID:     "user2",
		LocationID: "location1",
		Rating:     3,
		Tags:       entity.Array[string]{"ramp"},
		Comment:    "Ramp is steep but usable.",
	}
)

func CreateFixtureDb(ctx context.Context) {
	insertUsers(ctx)
	insertLocations(ctx)
	insertReviews(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository(nil)

	for _, user := range []entity.User{User1, User2, Admin, WalletUser} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func insertLocations(ctx context.Context) {
	locationRepo := repository.NewLocationRepository()

	for _, location := range []entity.Location{Location1, Location2} {
		location := location
		if err := locationRepo.Create(ctx, &location); err != nil {
			panic(err)
		}
	}
}

func insertReviews(ctx context.Context) {
	reviewRepo := repository.NewReviewRepository()

	for _, review := range []entity.Review{Review1, Review2} {
		review := review
		if err := reviewRepo.Create(ctx, &review); err != nil {
			panic(err)
		}
	}
}
