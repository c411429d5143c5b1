package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestGetOrCreateProfile(t *testing.T) {
	t.Run("returns_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		profile, err := svc.GetOrCreateProfile(user.ID)
		testutil.AssertNoError(t, err)

		if profile.ID != user.Profile.ID {
			t.Errorf("expected existing profile %s, got %s", user.Profile.ID, profile.ID)
		}
	})

	t.Run("creates_when_missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, db.Unscoped().Delete(user.Profile).Error)

		profile, err := svc.GetOrCreateProfile(user.ID)
		testutil.AssertNoError(t, err)

		if profile.Points != 0 {
			t.Errorf("expected fresh profile with 0 points, got %d", profile.Points)
		}
		if profile.ProfilePicture != nil {
			t.Error("expected fresh profile without a picture")
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("updates_points", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		profile, err := svc.UpdateProfile(user.ID, ProfileUpdate{Points: intPtr(42)})
		testutil.AssertNoError(t, err)

		if profile.Points != 42 {
			t.Errorf("expected 42 points, got %d", profile.Points)
		}

		var stored models.UserProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
		if stored.Points != 42 {
			t.Errorf("expected persisted points 42, got %d", stored.Points)
		}
	})

	t.Run("updates_picture_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.UpdateProfile(user.ID, ProfileUpdate{Points: intPtr(10)})
		testutil.AssertNoError(t, err)

		profile, err := svc.UpdateProfile(user.ID, ProfileUpdate{ProfilePicture: strPtr("avatars/me.png")})
		testutil.AssertNoError(t, err)

		if profile.ProfilePicture == nil || *profile.ProfilePicture != "avatars/me.png" {
			t.Error("expected picture to be updated")
		}
		if profile.Points != 10 {
			t.Errorf("expected untouched points to remain 10, got %d", profile.Points)
		}
	})

	t.Run("negative_points_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.UpdateProfile(user.ID, ProfileUpdate{Points: intPtr(-1)})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("invalid_request_changes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.UpdateProfile(user.ID, ProfileUpdate{Points: intPtr(5)})
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateProfile(user.ID, ProfileUpdate{
			ProfilePicture: strPtr("new.png"),
			Points:         intPtr(-3),
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		var stored models.UserProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
		if stored.Points != 5 {
			t.Errorf("expected points untouched at 5, got %d", stored.Points)
		}
		if stored.ProfilePicture != nil {
			t.Error("expected picture untouched after rejected update")
		}
	})

	t.Run("empty_update_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		profile, err := svc.UpdateProfile(user.ID, ProfileUpdate{})
		testutil.AssertNoError(t, err)
		if profile.Points != 0 {
			t.Errorf("expected no changes, got %d points", profile.Points)
		}
	})
}
