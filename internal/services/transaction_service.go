package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// maxTransactionAmount is the largest representable amount: ten digits
// in total with two of them fractional.
var maxTransactionAmount = decimal.New(9999999999, -2)

// transactionService handles transaction business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// scoped returns a query restricted to the given owner. Every read and
// write against transactions goes through this predicate, so rows owned
// by other users are unreachable rather than merely forbidden.
func (s *transactionService) scoped(userID string) *gorm.DB {
	return s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
}

func validateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"amount": "must be greater than zero"})
	case amount.Exponent() < -2:
		return apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"amount": "must have at most 2 decimal places"})
	case amount.GreaterThan(maxTransactionAmount):
		return apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"amount": "must have at most 10 digits"})
	}
	return nil
}

func validateType(txType models.TransactionType) error {
	switch txType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return nil
	}
	return apperrors.WithFields(apperrors.ErrValidation,
		map[string]string{"type": "must be income or expense"})
}

func validateCategory(category models.TransactionCategory) error {
	for _, c := range models.TransactionCategories {
		if category == c {
			return nil
		}
	}
	return apperrors.WithFields(apperrors.ErrValidation,
		map[string]string{"category": "is not a valid category"})
}

// CreateTransaction creates a transaction owned by the given user. The
// owner always comes from the authenticated caller; there is no way for
// request data to choose a different owner.
func (s *transactionService) CreateTransaction(
	userID string,
	txType models.TransactionType,
	category models.TransactionCategory,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if err := validateType(txType); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Category:    category,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetUserTransactions returns the user's transactions, most recent first:
// descending by date, then by creation time.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var totalItems int64
	if err := s.scoped(userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.scoped(userID).
		Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a single transaction owned by the user.
// IDs owned by other users report not found.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.scoped(userID).Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the non-nil fields of update to an owned
// transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if update.Type != nil {
		if err := validateType(*update.Type); err != nil {
			return nil, err
		}
		transaction.Type = *update.Type
	}
	if update.Category != nil {
		if err := validateCategory(*update.Category); err != nil {
			return nil, err
		}
		transaction.Category = *update.Category
	}
	if update.Amount != nil {
		if err := validateAmount(*update.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *update.Amount
	}
	if update.Description != nil {
		transaction.Description = *update.Description
	}
	if update.Date != nil {
		transaction.Date = *update.Date
	}

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DeleteTransaction removes an owned transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	result := s.scoped(userID).Where("id = ?", transactionID).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetSummary aggregates the user's transactions in-process with exact
// decimal arithmetic. An empty set yields zeros.
func (s *transactionService) GetSummary(userID string) (*TransactionSummary, error) {
	var rows []models.Transaction
	if err := s.scoped(userID).Select("type", "amount").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &TransactionSummary{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TransactionCount: int64(len(rows)),
	}
	for _, t := range rows {
		switch t.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)

	return summary, nil
}
