package profile_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandyWyper/Know-How/core/profile"
	dummydb "github.com/SandyWyper/Know-How/storage/database/dummy"
	testutil "github.com/SandyWyper/Know-How/tests"
)

func TestService_CreateForAccount(t *testing.T) {
	ctx := context.Background()
	svc := profile.NewService(dummydb.NewProfileRepository(dummydb.Open()))

	p, err := svc.CreateForAccount(ctx, "acc-id")
	require.NoError(t, err)
	assert.Equal(t, "acc-id", p.AccountID)
	assert.True(t, p.AllowReviews)
	assert.False(t, p.IsTutor)

	_, err = svc.CreateForAccount(ctx, "acc-id")
	assert.Equal(t, profile.ErrProfileExists, err)

	got, err := svc.GetByAccount(ctx, "acc-id")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := profile.NewService(dummydb.NewProfileRepository(dummydb.Open()))

	_, err := svc.Update(ctx, "unknown", profile.UpdateProfile{})
	assert.Equal(t, profile.ErrNotFound, errors.Cause(err))

	p, err := svc.CreateForAccount(ctx, "acc-id")
	require.NoError(t, err)

	years := 4
	got, err := svc.Update(ctx, "acc-id", profile.UpdateProfile{
		Bio:             "Guitar tutor",
		Website:         "https://example.com",
		YearsExperience: &years,
		IsTutor:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Guitar tutor", got.Bio)
	assert.Equal(t, &years, got.YearsExperience)
	assert.True(t, got.IsTutor)
	assert.False(t, got.AllowReviews)
	assert.Equal(t, profile.UpdateProfile{
		Bio:             "Guitar tutor",
		Website:         "https://example.com",
		YearsExperience: &years,
		IsTutor:         true,
	}, got.Form())
}

func TestUpdateProfile_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()
	neg := -1

	tests := []struct {
		name    string
		up      profile.UpdateProfile
		wantErr bool
	}{
		{name: "empty", up: profile.UpdateProfile{}},
		{name: "valid website", up: profile.UpdateProfile{Website: " https://example.com "}},
		{name: "invalid website", up: profile.UpdateProfile{Website: "not a url"}, wantErr: true},
		{name: "phone too long", up: profile.UpdateProfile{PhoneNumber: "0123456789012345"}, wantErr: true},
		{name: "negative experience", up: profile.UpdateProfile{YearsExperience: &neg}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.up.Validate(validate)
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}
