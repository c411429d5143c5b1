package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// badgeService handles badge business logic.
type badgeService struct {
	db *gorm.DB
}

// NewBadgeService creates a new BadgeServicer.
func NewBadgeService(db *gorm.DB) BadgeServicer {
	return &badgeService{db: db}
}

func (s *badgeService) scoped(userID string) *gorm.DB {
	return s.db.Model(&models.Badge{}).Where("user_id = ?", userID)
}

// CreateBadge creates a badge for the given user. EarnedAt is set here
// and never changes afterwards.
func (s *badgeService) CreateBadge(userID, name, description, icon string) (*models.Badge, error) {
	if name == "" {
		return nil, apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"name": "is required"})
	}
	if icon == "" {
		icon = models.DefaultBadgeIcon
	}

	badge := &models.Badge{
		UserID:      userID,
		Name:        name,
		Description: description,
		Icon:        icon,
		EarnedAt:    time.Now(),
	}

	if err := s.db.Create(badge).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return badge, nil
}

// GetUserBadges returns the user's badges, most recently earned first.
func (s *badgeService) GetUserBadges(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Badge], error) {
	page.Defaults()

	var totalItems int64
	if err := s.scoped(userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var badges []models.Badge
	if err := s.scoped(userID).
		Scopes(pagination.Paginate(page)).
		Order("earned_at DESC").
		Find(&badges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(badges, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBadgeByID retrieves a single badge owned by the user.
func (s *badgeService) GetBadgeByID(userID, badgeID string) (*models.Badge, error) {
	var badge models.Badge
	if err := s.scoped(userID).Where("id = ?", badgeID).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBadgeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &badge, nil
}

// UpdateBadge applies the non-nil fields of update to an owned badge.
// EarnedAt is never touched.
func (s *badgeService) UpdateBadge(userID, badgeID string, update BadgeUpdate) (*models.Badge, error) {
	badge, err := s.GetBadgeByID(userID, badgeID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.WithFields(apperrors.ErrValidation,
				map[string]string{"name": "is required"})
		}
		badge.Name = *update.Name
	}
	if update.Description != nil {
		badge.Description = *update.Description
	}
	if update.Icon != nil && *update.Icon != "" {
		badge.Icon = *update.Icon
	}

	if err := s.db.Save(badge).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return badge, nil
}

// DeleteBadge removes an owned badge.
func (s *badgeService) DeleteBadge(userID, badgeID string) error {
	result := s.scoped(userID).Where("id = ?", badgeID).Delete(&models.Badge{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBadgeNotFound
	}
	return nil
}
