package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password, firstName, lastName string) (*models.User, error)
	AttemptLogin(username, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetOrCreateGoogleUser(email, firstName, lastName string) (*models.User, bool, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ProfileUpdate holds the mutable profile fields for a partial update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	ProfilePicture *string
	Points         *int
}

// ProfileServicer defines the contract for user-profile business logic.
type ProfileServicer interface {
	GetOrCreateProfile(userID string) (*models.UserProfile, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.UserProfile, error)
}

// TransactionUpdate holds the mutable transaction fields for an update.
// Nil fields are left untouched; a PUT sets every field.
type TransactionUpdate struct {
	Type        *models.TransactionType
	Category    *models.TransactionCategory
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// TransactionSummary aggregates a user's transactions with exact
// decimal arithmetic.
type TransactionSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transaction_count"`
}

// TransactionServicer defines the contract for transaction business logic.
// Every operation is scoped to the owning user at the query level, so
// another user's transaction IDs are indistinguishable from nonexistent
// ones.
type TransactionServicer interface {
	CreateTransaction(userID string, txType models.TransactionType, category models.TransactionCategory, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetSummary(userID string) (*TransactionSummary, error)
}

// BadgeUpdate holds the mutable badge fields. EarnedAt is immutable and
// deliberately absent.
type BadgeUpdate struct {
	Name        *string
	Description *string
	Icon        *string
}

// BadgeServicer defines the contract for badge business logic, with the
// same owner scoping as transactions.
type BadgeServicer interface {
	CreateBadge(userID, name, description, icon string) (*models.Badge, error)
	GetUserBadges(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Badge], error)
	GetBadgeByID(userID, badgeID string) (*models.Badge, error)
	UpdateBadge(userID, badgeID string, update BadgeUpdate) (*models.Badge, error)
	DeleteBadge(userID, badgeID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
