package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionCategory is the closed set of categories a transaction
// can belong to. Unknown values are rejected at the binding layer.
type TransactionCategory string

const (
	CategoryFood          TransactionCategory = "food"
	CategoryTransport     TransactionCategory = "transport"
	CategoryShopping      TransactionCategory = "shopping"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryBills         TransactionCategory = "bills"
	CategoryHealth        TransactionCategory = "health"
	CategoryEducation     TransactionCategory = "education"
	CategorySalary        TransactionCategory = "salary"
	CategoryFreelance     TransactionCategory = "freelance"
	CategoryInvestment    TransactionCategory = "investment"
	CategoryOther         TransactionCategory = "other"
)

// TransactionCategories lists every valid category.
var TransactionCategories = []TransactionCategory{
	CategoryFood, CategoryTransport, CategoryShopping, CategoryEntertainment,
	CategoryBills, CategoryHealth, CategoryEducation, CategorySalary,
	CategoryFreelance, CategoryInvestment, CategoryOther,
}

// Transaction represents a single income or expense entry. Rows are
// visible only to their owning user; every query against this table
// must carry a user_id predicate. Amount is an exact decimal with two
// fractional digits and at most ten digits in total. Date is the
// calendar date of the transaction, distinct from CreatedAt.
type Transaction struct {
	Base
	UserID      string              `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1" json:"user_id"`
	Type        TransactionType     `gorm:"size:10;not null" json:"type"`
	Category    TransactionCategory `gorm:"size:20;not null" json:"category"`
	Amount      decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description string              `gorm:"size:255" json:"description"`
	Date        time.Time           `gorm:"type:date;not null;index:idx_transactions_user_date,priority:2,sort:desc" json:"date"`
}
