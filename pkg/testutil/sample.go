package testutil

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/crypto"
)

// SampleUser creates a new user in database with many fields randomized. The
// sample user can be overwritten by non-zero fields of init.
//
// This function returns the sample user.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	userRepo := repository.NewUserRepository(nil)

	sample := &entity.User{
		Base: entity.Base{ID: uuid.NewString()},
		Name: uuid.NewString(),
		Role: entity.UserRole,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := userRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

// SampleLocation creates a new location in database. Non-zero fields of init
// overwrite the randomized defaults.
func SampleLocation(ctx context.Context, init *entity.Location) (entity.Location, error) {
	locationRepo := repository.NewLocationRepository()

	id := uuid.NewString()
	sample := &entity.Location{
		Base:     entity.Base{ID: id},
		Name:     fmt.Sprintf("place-%s", id),
		Address:  fmt.Sprintf("%d Example Street", crypto.RandIntn(1000)),
		Category: entity.CategoryCafe,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := locationRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

// SampleReview creates a new review in database. It requires init to carry at
// least UserID and LocationID.
func SampleReview(ctx context.Context, init *entity.Review) (entity.Review, error) {
	reviewRepo := repository.NewReviewRepository()

	sample := &entity.Review{
		Base:    entity.Base{ID: uuid.NewString()},
		Rating:  4,
		Tags:    entity.Array[string]{"wheelchair-accessible"},
		Comment: "Spacious and easy to get around.",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := reviewRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if overwriteField.Comparable() {
			if overwriteField.Interface() != reflect.Zero(overwriteField.Type()).Interface() {
				originValue.Field(i).Set(overwriteField)
			}
		} else if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
