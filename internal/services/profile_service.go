package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// profileService handles user-profile business logic.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// GetOrCreateProfile returns the user's profile, creating an empty one if
// none exists. Profile access never fails due to absence.
func (s *profileService) GetOrCreateProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profile = models.UserProfile{UserID: userID}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpdateProfile applies a partial update to the mutable profile fields.
// All supplied fields are written in a single update statement, so a
// request either mutates everything it asked for or nothing at all.
func (s *profileService) UpdateProfile(userID string, update ProfileUpdate) (*models.UserProfile, error) {
	if update.Points != nil && *update.Points < 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"points": "must be zero or a positive integer"})
	}
	if update.ProfilePicture != nil && len(*update.ProfilePicture) > 255 {
		return nil, apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"profile_picture": "must be at most 255 characters"})
	}

	profile, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.ProfilePicture != nil {
		updates["profile_picture"] = *update.ProfilePicture
	}
	if update.Points != nil {
		updates["points"] = *update.Points
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.db.Model(profile).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}
